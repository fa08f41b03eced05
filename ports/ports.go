// Package ports defines the interfaces the fitting pipeline consumes. The
// default implementations live under adapters/; callers may substitute their
// own solver or screener as long as the contracts hold.
package ports

import (
	"context"

	"sprinter/domain/model"

	"gonum.org/v1/gonum/mat"
)

// PenalizedSolver fits an L1-penalized least-squares path over a decreasing
// sequence of penalty values.
//
// Contract: one coefficient column per lambda, deterministic given identical
// inputs, coefficients reported in original feature units. weights and
// warmStart may be nil. A zero-feature or zero-row problem degrades to an
// empty result instead of erroring; dimension mismatches and negative lambda
// values surface core.ErrInvalidInput.
type PenalizedSolver interface {
	FitPath(x *mat.Dense, y, lambda, weights, warmStart []float64) (*model.PathFit, error)
}

// InteractionScreener ranks all candidate pairwise interactions l < k against
// a residual vector and returns the top numKeep pairs in descending score
// order, ties broken lexicographically. It must never materialize the full
// interaction matrix.
type InteractionScreener interface {
	Screen(ctx context.Context, x *mat.Dense, residual []float64, numKeep int) ([]model.IndexPair, error)
}
