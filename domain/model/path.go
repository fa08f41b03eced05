package model

import (
	"sprinter/domain/core"

	"gonum.org/v1/gonum/mat"
)

// PathFit is the output of the penalized solver: one coefficient column and
// one intercept per lambda value, in path order. Coefficients are reported in
// original (un-standardized) feature units.
type PathFit struct {
	// Coefs has one row per engineered feature and one column per lambda.
	// Nil when the fit had zero features.
	Coefs *mat.Dense

	// Intercepts holds the unpenalized intercept per lambda.
	Intercepts []float64

	// Lambda is the penalty path the columns correspond to.
	Lambda []float64

	// NonConverged marks lambda indices whose coordinate descent hit the
	// iteration budget before reaching tolerance. The best iterate is still
	// stored in the matching column.
	NonConverged []bool
}

// NumTerms returns the number of coefficient rows.
func (pf *PathFit) NumTerms() int {
	if pf.Coefs == nil {
		return 0
	}
	r, _ := pf.Coefs.Dims()
	return r
}

// NumLambda returns the path length.
func (pf *PathFit) NumLambda() int {
	return len(pf.Lambda)
}

// Coef returns the coefficient for term i at lambda index j.
func (pf *PathFit) Coef(i, j int) float64 {
	if pf.Coefs == nil {
		return 0
	}
	return pf.Coefs.At(i, j)
}

// Column copies the coefficient column at lambda index j.
func (pf *PathFit) Column(j int) []float64 {
	out := make([]float64, pf.NumTerms())
	for i := range out {
		out[i] = pf.Coefs.At(i, j)
	}
	return out
}

// ValidateLambdaPath checks that a user-supplied path is usable: non-empty,
// strictly decreasing and non-negative.
func ValidateLambdaPath(lambda []float64) error {
	if len(lambda) == 0 {
		return core.ErrEmptyPath
	}
	for i, lam := range lambda {
		if lam < 0 {
			return core.NewPenaltyError(i, lam)
		}
		if i > 0 && lam >= lambda[i-1] {
			return core.ErrPathNotDecreasing
		}
	}
	return nil
}
