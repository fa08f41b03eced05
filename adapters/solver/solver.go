// Package solver implements the L1-penalized least-squares primitive used by
// every stage of the sprinter pipeline: coordinate descent over a decreasing
// lambda path with warm starts, optional observation weights, and internal
// column standardization.
//
// The objective solved at each lambda is
//
//	min_b (1/2n) * sum_i w_i (y_i - x_i'b)^2 + lambda * ||b||_1
//
// with an unpenalized intercept handled by weighted centering. Coefficients
// are un-standardized back to original feature units before being returned.
package solver

import (
	"math"

	"sprinter/domain/core"
	"sprinter/domain/model"
	"sprinter/internal"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Config holds solver parameters.
type Config struct {
	MaxIter     int     // coordinate sweeps per lambda before declaring non-convergence
	Tol         float64 // relative coefficient-change convergence tolerance
	Standardize bool    // scale columns to unit variance (columns are always centered)
}

// NewDefaultConfig returns recommended default parameters.
func NewDefaultConfig() *Config {
	return &Config{
		MaxIter:     1000,
		Tol:         1e-7,
		Standardize: true,
	}
}

// Solver is the default ports.PenalizedSolver implementation.
type Solver struct {
	cfg *Config
	log *internal.Logger
}

// New creates a solver; a nil config selects defaults.
func New(cfg *Config) *Solver {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Solver{cfg: cfg, log: internal.NewDefaultLogger()}
}

// problem holds the centered/scaled working state shared across the path.
type problem struct {
	n, m   int
	cols   [][]float64 // centered (and scaled) feature columns
	mean   []float64   // column means
	scale  []float64   // column scales (1 when Standardize is off)
	xv     []float64   // (1/n) sum_i w_i cols[j][i]^2, the update denominators
	w      []float64   // nil when unweighted
	yMean  float64
	r      []float64 // current residual
	b      []float64 // coefficients in standardized units
	active []bool
}

// FitPath fits the path and returns one coefficient column per lambda.
// weights and warmStart may be nil; warmStart is in original feature units.
func (s *Solver) FitPath(x *mat.Dense, y, lambda, weights, warmStart []float64) (*model.PathFit, error) {
	n := len(y)
	m := 0
	if x != nil {
		xr, xc := x.Dims()
		if xr != n {
			return nil, core.NewDimensionError("X", xr, n)
		}
		m = xc
	}

	if len(lambda) == 0 {
		return nil, core.ErrEmptyPath
	}
	for i, lam := range lambda {
		if lam < 0 {
			return nil, core.NewPenaltyError(i, lam)
		}
	}
	if len(weights) > 0 && len(weights) != n {
		return nil, core.NewDimensionError("weights", len(weights), n)
	}
	for i, wi := range weights {
		if wi < 0 {
			return nil, core.NewWeightError(i, wi)
		}
	}
	if len(warmStart) > 0 && len(warmStart) != m {
		return nil, core.NewDimensionError("warm start", len(warmStart), m)
	}

	nlam := len(lambda)
	out := &model.PathFit{
		Intercepts:   make([]float64, nlam),
		Lambda:       append([]float64(nil), lambda...),
		NonConverged: make([]bool, nlam),
	}

	// Degenerate shapes degrade gracefully: screening can leave nothing to
	// fit and downstream callers must still get a well-formed path.
	if n == 0 {
		if m > 0 {
			out.Coefs = mat.NewDense(m, nlam, nil)
		}
		return out, nil
	}

	prob := s.prepare(x, y, weights, warmStart, n, m)
	if m == 0 {
		for j := range out.Intercepts {
			out.Intercepts[j] = prob.yMean
		}
		return out, nil
	}

	out.Coefs = mat.NewDense(m, nlam, nil)
	for l, lam := range lambda {
		converged := s.descend(prob, lam)
		out.NonConverged[l] = !converged
		if !converged {
			s.log.Warnf("solver: lambda[%d]=%g hit iteration budget %d before tolerance %g",
				l, lam, s.cfg.MaxIter, s.cfg.Tol)
		}

		// Un-standardize this column and recover the intercept.
		intercept := prob.yMean
		for j := 0; j < m; j++ {
			bj := prob.b[j] / prob.scale[j]
			out.Coefs.Set(j, l, bj)
			intercept -= bj * prob.mean[j]
		}
		out.Intercepts[l] = intercept
	}
	return out, nil
}

// prepare centers and scales the working copy and seeds the residual,
// applying the warm start when present.
func (s *Solver) prepare(x *mat.Dense, y, weights, warmStart []float64, n, m int) *problem {
	prob := &problem{
		n:      n,
		m:      m,
		cols:   make([][]float64, m),
		mean:   make([]float64, m),
		scale:  make([]float64, m),
		xv:     make([]float64, m),
		b:      make([]float64, m),
		active: make([]bool, m),
		r:      make([]float64, n),
	}

	if len(weights) > 0 {
		// Normalize weights to sum to n so the 1/n objective scaling holds.
		w := append([]float64(nil), weights...)
		if sum := floats.Sum(w); sum > 0 {
			floats.Scale(float64(n)/sum, w)
		}
		prob.w = w
	}

	prob.yMean = prob.weightedMean(y)
	for i := range prob.r {
		prob.r[i] = y[i] - prob.yMean
	}

	for j := 0; j < m; j++ {
		col := make([]float64, n)
		mat.Col(col, j, x)
		mu := prob.weightedMean(col)
		floats.AddConst(-mu, col)

		scale := 1.0
		if s.cfg.Standardize {
			var ss float64
			if prob.w != nil {
				for i, v := range col {
					ss += prob.w[i] * v * v
				}
			} else {
				ss = floats.Dot(col, col)
			}
			scale = math.Sqrt(ss / float64(n))
			if scale < 1e-12 {
				// Constant column: leave it centered at zero, coefficient stays zero.
				scale = 1.0
			}
			floats.Scale(1/scale, col)
		}

		var xv float64
		if prob.w != nil {
			for i, v := range col {
				xv += prob.w[i] * v * v
			}
		} else {
			xv = floats.Dot(col, col)
		}

		prob.cols[j] = col
		prob.mean[j] = mu
		prob.scale[j] = scale
		prob.xv[j] = xv / float64(n)

		if len(warmStart) > 0 && warmStart[j] != 0 {
			bj := warmStart[j] * scale
			prob.b[j] = bj
			prob.active[j] = true
			floats.AddScaled(prob.r, -bj, col)
		}
	}
	return prob
}

func (p *problem) weightedMean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	if p.w == nil {
		return floats.Sum(v) / float64(len(v))
	}
	var sum float64
	for i, vi := range v {
		sum += p.w[i] * vi
	}
	return sum / float64(len(v))
}

// descend runs coordinate descent at a single lambda, warm-started from the
// current coefficients. Returns false when the iteration budget is exhausted.
func (s *Solver) descend(prob *problem, lam float64) bool {
	thresh := func() float64 {
		maxAbs := 0.0
		for _, bj := range prob.b {
			if a := math.Abs(bj); a > maxAbs {
				maxAbs = a
			}
		}
		return s.cfg.Tol * math.Max(1, maxAbs)
	}

	for iter := 0; iter < s.cfg.MaxIter; iter++ {
		// Full sweep over every coordinate.
		maxDelta := s.sweep(prob, lam, false)
		if maxDelta < thresh() {
			return true
		}

		// Iterate the active set to convergence before the next full sweep.
		for inner := 0; inner < s.cfg.MaxIter; inner++ {
			if s.sweep(prob, lam, true) < thresh() {
				break
			}
		}
	}
	return false
}

// sweep updates each coordinate once and returns the largest coefficient
// change. With activeOnly set, coordinates currently at zero are skipped.
func (s *Solver) sweep(prob *problem, lam float64, activeOnly bool) float64 {
	maxDelta := 0.0
	for j := 0; j < prob.m; j++ {
		if activeOnly && !prob.active[j] {
			continue
		}
		if prob.xv[j] == 0 {
			continue
		}

		col := prob.cols[j]
		var dot float64
		if prob.w != nil {
			for i, v := range col {
				dot += prob.w[i] * v * prob.r[i]
			}
		} else {
			dot = floats.Dot(col, prob.r)
		}

		bj := prob.b[j]
		rho := dot/float64(prob.n) + prob.xv[j]*bj
		bNew := softThreshold(rho, lam) / prob.xv[j]
		if bNew == bj {
			continue
		}

		floats.AddScaled(prob.r, bj-bNew, col)
		prob.b[j] = bNew
		prob.active[j] = bNew != 0
		if d := math.Abs(bNew - bj); d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}

// softThreshold applies the soft-thresholding operator S(z, a).
func softThreshold(z, a float64) float64 {
	switch {
	case z > a:
		return z - a
	case z < -a:
		return z + a
	default:
		return 0
	}
}
