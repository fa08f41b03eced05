package model

import (
	"fmt"
	"strings"

	"sprinter/domain/core"
)

// FitResult is the full output of one SprinterFitter run: the index table,
// the coefficient path over it, and the run trace. Immutable once built.
type FitResult struct {
	RunID core.RunID

	// N and P are the training dimensions (observations, main-effect variables).
	N int
	P int

	// Square records whether squared effects were included.
	Square bool

	// NumKeep is the resolved screening budget used in Stage 2.
	NumKeep int

	// Table keys every row of Path.Coefs. Main effects first, then squared
	// effects when enabled, then screened interactions in screening order.
	Table IndexTable

	// Path holds the Stage-3 coefficient matrix, intercepts and lambda path.
	Path PathFit

	// Trace records per-stage durations and metrics.
	Trace []StageResult

	// Fingerprint hashes the structural inputs for replayability audits.
	Fingerprint core.Hash
}

// Estimate pairs one index-table row with its fitted coefficient.
type Estimate struct {
	Pair  IndexPair `json:"pair"`
	Value float64   `json:"value"`
}

// CompactResult is the sparse cross-validated model: the rows with nonzero
// coefficient at the chosen lambda, plus the intercept. This is the only
// structure Predictor needs.
type CompactResult struct {
	RunID     core.RunID
	P         int
	Lambda    float64
	Intercept float64
	Estimates []Estimate
}

// String renders the compact model one term per line, largest terms first
// by row order.
func (c *CompactResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lambda = %g, intercept = %g\n", c.Lambda, c.Intercept)
	for _, est := range c.Estimates {
		fmt.Fprintf(&b, "%-12s %+g\n", est.Pair.Label(), est.Value)
	}
	return b.String()
}

// CVResult is the output of cross-validation: the full-data fit, the per-lambda
// error curve with standard errors, the selected lambda and the compact model.
type CVResult struct {
	RunID core.RunID

	// Fit is the full-data refit over the shared lambda path.
	Fit *FitResult

	// Lambda is the shared path; CVError and CVErrorSE are aligned to it.
	Lambda    []float64
	CVError   []float64
	CVErrorSE []float64

	// ChosenIndex locates ChosenLambda within Lambda.
	ChosenIndex  int
	ChosenLambda float64

	Compact CompactResult
}

// CompactAt extracts the nonzero rows of a fit at lambda index j.
func (r *FitResult) CompactAt(j int) (CompactResult, error) {
	if j < 0 || j >= r.Path.NumLambda() {
		return CompactResult{}, fmt.Errorf("%w: lambda index %d out of range [0,%d)",
			core.ErrInvalidInput, j, r.Path.NumLambda())
	}
	out := CompactResult{
		RunID:     r.RunID,
		P:         r.P,
		Lambda:    r.Path.Lambda[j],
		Intercept: r.Path.Intercepts[j],
	}
	for i, pair := range r.Table {
		if v := r.Path.Coef(i, j); v != 0 {
			out.Estimates = append(out.Estimates, Estimate{Pair: pair, Value: v})
		}
	}
	return out, nil
}
