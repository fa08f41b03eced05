package solver

import (
	"math"

	"sprinter/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxLambda computes the smallest penalty that zeroes every coefficient:
// the largest absolute inner product (1/n)|<x_j, y - ybar>| over standardized
// columns. FitPath at this value (or above) returns the all-zero solution.
func (s *Solver) MaxLambda(x *mat.Dense, y, weights []float64) (float64, error) {
	n := len(y)
	if x == nil || n == 0 {
		return 0, nil
	}
	xr, m := x.Dims()
	if xr != n {
		return 0, core.NewDimensionError("X", xr, n)
	}
	if len(weights) > 0 && len(weights) != n {
		return 0, core.NewDimensionError("weights", len(weights), n)
	}

	var w []float64
	if len(weights) > 0 {
		w = append([]float64(nil), weights...)
		if sum := floats.Sum(w); sum > 0 {
			floats.Scale(float64(n)/sum, w)
		}
	}

	wmean := func(v []float64) float64 {
		if w == nil {
			return floats.Sum(v) / float64(n)
		}
		var sum float64
		for i, vi := range v {
			sum += w[i] * vi
		}
		return sum / float64(n)
	}

	yc := make([]float64, n)
	yMean := wmean(y)
	for i, yi := range y {
		yc[i] = yi - yMean
	}

	// The column transforms below mirror FitPath's standardization step
	// by op so that fitting at exactly this value thresholds to zero.
	col := make([]float64, n)
	maxLam := 0.0
	for j := 0; j < m; j++ {
		mat.Col(col, j, x)
		mu := wmean(col)
		floats.AddConst(-mu, col)

		if s.cfg.Standardize {
			var ss float64
			if w != nil {
				for i, v := range col {
					ss += w[i] * v * v
				}
			} else {
				ss = floats.Dot(col, col)
			}
			scale := math.Sqrt(ss / float64(n))
			if scale < 1e-12 {
				continue
			}
			floats.Scale(1/scale, col)
		}

		var dot float64
		if w != nil {
			for i, v := range col {
				dot += w[i] * v * yc[i]
			}
		} else {
			dot = floats.Dot(col, yc)
		}
		if a := math.Abs(dot) / float64(n); a > maxLam {
			maxLam = a
		}
	}
	return maxLam, nil
}

// LambdaPath builds a log-spaced decreasing path of nlam values from the
// data-derived maximum down to minRatio times it.
func (s *Solver) LambdaPath(x *mat.Dense, y, weights []float64, nlam int, minRatio float64) ([]float64, error) {
	if nlam < 1 {
		return nil, core.ErrEmptyPath
	}
	maxLam, err := s.MaxLambda(x, y, weights)
	if err != nil {
		return nil, err
	}
	if maxLam <= 0 {
		// Response is constant (or there are no features); any positive path
		// yields the all-zero fit, so pick an arbitrary unit-scale anchor.
		maxLam = 1.0
	}
	return Logspace(maxLam, maxLam*minRatio, nlam), nil
}

// Logspace returns nlam log-spaced values from hi down to lo inclusive.
func Logspace(hi, lo float64, nlam int) []float64 {
	if nlam == 1 {
		return []float64{hi}
	}
	out := make([]float64, nlam)
	logHi, logLo := math.Log(hi), math.Log(lo)
	for i := range out {
		t := float64(i) / float64(nlam-1)
		out[i] = math.Exp(logHi + t*(logLo-logHi))
	}
	return out
}
