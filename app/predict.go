package app

import (
	"gonum.org/v1/gonum/mat"

	"sprinter/adapters/features"
	"sprinter/domain/core"
	"sprinter/domain/model"
)

// Predict applies a compact cross-validated model to new main-effect data.
// Only the engineered columns named by the compact estimates are
// reconstructed, one at a time.
func Predict(c *model.CompactResult, xNew *mat.Dense) ([]float64, error) {
	n, p := xNew.Dims()
	if p != c.P {
		return nil, core.NewColumnCountError(p, c.P)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = c.Intercept
	}

	col := make([]float64, n)
	for _, est := range c.Estimates {
		if err := features.Column(col, xNew, est.Pair); err != nil {
			return nil, err
		}
		for i, v := range col {
			out[i] += est.Value * v
		}
	}
	return out, nil
}

// PredictPath evaluates a full path fit on new main-effect data, returning
// one prediction column per lambda. Used by cross-validation for held-out
// error curves.
func PredictPath(fit *model.FitResult, xNew *mat.Dense) (*mat.Dense, error) {
	n, p := xNew.Dims()
	if p != fit.P {
		return nil, core.NewColumnCountError(p, fit.P)
	}

	nlam := fit.Path.NumLambda()
	out := mat.NewDense(n, nlam, nil)
	for l := 0; l < nlam; l++ {
		a0 := fit.Path.Intercepts[l]
		for i := 0; i < n; i++ {
			out.Set(i, l, a0)
		}
	}

	col := make([]float64, n)
	for j, pair := range fit.Table {
		// Skip rows that are zero across the whole path.
		anyNonzero := false
		for l := 0; l < nlam; l++ {
			if fit.Path.Coef(j, l) != 0 {
				anyNonzero = true
				break
			}
		}
		if !anyNonzero {
			continue
		}
		if err := features.Column(col, xNew, pair); err != nil {
			return nil, err
		}
		for l := 0; l < nlam; l++ {
			c := fit.Path.Coef(j, l)
			if c == 0 {
				continue
			}
			for i, v := range col {
				out.Set(i, l, out.At(i, l)+c*v)
			}
		}
	}
	return out, nil
}
