package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", ErrInvalidInput)
	ErrNegativePenalty   = fmt.Errorf("%w: negative penalty value", ErrInvalidInput)
	ErrBadFoldCount      = fmt.Errorf("%w: fold count must be at least 2", ErrInvalidInput)
	ErrBadIndexPair      = fmt.Errorf("%w: malformed index pair", ErrInvalidInput)
	ErrEmptyPath         = fmt.Errorf("%w: empty lambda path", ErrInvalidInput)
	ErrPathNotDecreasing = fmt.Errorf("%w: lambda path must be strictly decreasing", ErrInvalidInput)

	// Numerical errors
	ErrNonConvergence = errors.New("coordinate descent did not converge")

	// Lifecycle errors
	ErrNotFitted = errors.New("model has not been fitted")
)

// Error constructors with context
func NewDimensionError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d rows, want %d", ErrDimensionMismatch, what, got, want)
}

func NewColumnCountError(got, want int) error {
	return fmt.Errorf("%w: matrix has %d columns, trained with %d", ErrDimensionMismatch, got, want)
}

func NewPenaltyError(index int, value float64) error {
	return fmt.Errorf("%w: lambda[%d] = %g", ErrNegativePenalty, index, value)
}

func NewIndexPairError(l, k, p int) error {
	return fmt.Errorf("%w: (%d,%d) with p = %d", ErrBadIndexPair, l, k, p)
}

func NewWeightError(index int, value float64) error {
	return fmt.Errorf("%w: weights[%d] = %g must be non-negative", ErrInvalidInput, index, value)
}

func NewNumKeepError(numKeep int) error {
	return fmt.Errorf("%w: num_keep = %d must be non-negative", ErrInvalidInput, numKeep)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsNonConvergence(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}
