// Package app orchestrates the three-stage sprinter pipeline and its
// cross-validation wrapper over the solver, feature-builder and screener
// adapters.
package app

import (
	"sprinter/adapters/screen"
	"sprinter/adapters/solver"
)

// Config holds every tunable of the pipeline. Zero values select the
// documented defaults; resolution happens once at the top of a fit, never
// ad hoc inside a stage.
type Config struct {
	// Square includes squared main effects in Stage 1 and Stage 3.
	Square bool

	// NumLambda is the Stage-3 path length. Default 100.
	NumLambda int

	// LamMinRatio is the ratio of the smallest to the largest path value.
	// Default 0.01 when n < number of engineered features, else 1e-4.
	LamMinRatio float64

	// NumKeep is the screening budget. Default ceil(n / ln n), clamped to
	// the number of candidate pairs.
	NumKeep int

	// Lambda, when non-nil, is used verbatim as the Stage-3 path and must be
	// strictly decreasing and non-negative.
	Lambda []float64

	// NumFolds is the cross-validation fold count. Default 5.
	NumFolds int

	// Seed drives the deterministic fold assignment shuffle.
	Seed int64

	// Workers bounds fold and screening parallelism; 0 selects GOMAXPROCS.
	Workers int

	Solver *solver.Config
	Screen screen.Config
}

// NewDefaultConfig returns the documented defaults.
func NewDefaultConfig() *Config {
	return &Config{
		NumLambda: 100,
		NumFolds:  5,
		Seed:      1,
		Solver:    solver.NewDefaultConfig(),
	}
}

// withOverrides clones the config, forcing the shared path and screening
// budget used for per-fold fits.
func (c *Config) withOverrides(lambda []float64, numKeep int) *Config {
	out := *c
	out.Lambda = append([]float64(nil), lambda...)
	out.NumKeep = numKeep
	return &out
}

// resolve fills defaulted fields given the problem dimensions. m is the
// engineered feature count of the final joint fit.
func (c *Config) resolve(n, m int) (nlam int, ratio float64) {
	nlam = c.NumLambda
	if nlam <= 0 {
		nlam = 100
	}
	ratio = c.LamMinRatio
	if ratio <= 0 {
		if n < m {
			ratio = 0.01
		} else {
			ratio = 1e-4
		}
	}
	return nlam, ratio
}
