package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/internal/testkit"
)

func TestPredictRejectsColumnMismatch(t *testing.T) {
	sim := testkit.NewSimulation(50, 10, testkit.WorkedExampleTerms(), 1, 1)

	cfg := NewDefaultConfig()
	cfg.NumLambda = 20
	res, err := NewCrossValidator(cfg).Fit(context.Background(), sim.X, sim.Y)
	require.NoError(t, err)

	wrong := mat.NewDense(5, 9, nil)
	_, err = Predict(&res.Compact, wrong)
	require.True(t, core.IsInvalidInput(err))

	_, err = PredictPath(res.Fit, wrong)
	require.True(t, core.IsInvalidInput(err))
}

// Round-trip: the compact interaction model must beat the best main-effects
// only fit in sample whenever true interactions exist.
func TestPredictRoundTripBeatsMainEffects(t *testing.T) {
	sim := testkit.NewSimulation(100, 50, testkit.WorkedExampleTerms(), 1, 2)

	cfg := NewDefaultConfig()
	cfg.NumLambda = 40
	res, err := NewCrossValidator(cfg).Fit(context.Background(), sim.X, sim.Y)
	require.NoError(t, err)

	pred, err := Predict(&res.Compact, sim.X)
	require.NoError(t, err)
	compactMSE := testkit.MSE(sim.Y, pred)

	// Reference: unpenalized least squares on main effects plus intercept,
	// the in-sample optimum over every main-effects-only model.
	aug := mat.NewDense(sim.N, sim.P+1, nil)
	for i := 0; i < sim.N; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < sim.P; j++ {
			aug.Set(i, j+1, sim.X.At(i, j))
		}
	}
	var beta mat.VecDense
	require.NoError(t, beta.SolveVec(aug, mat.NewVecDense(sim.N, sim.Y)))

	olsPred := make([]float64, sim.N)
	for i := 0; i < sim.N; i++ {
		v := beta.AtVec(0)
		for j := 0; j < sim.P; j++ {
			v += beta.AtVec(j+1) * sim.X.At(i, j)
		}
		olsPred[i] = v
	}
	mainMSE := testkit.MSE(sim.Y, olsPred)

	require.Less(t, compactMSE, mainMSE,
		"interaction model (MSE %g) should beat main effects only (MSE %g)", compactMSE, mainMSE)
}

func TestPredictOnFreshData(t *testing.T) {
	train := testkit.NewSimulation(100, 30, testkit.WorkedExampleTerms(), 1, 3)
	test := testkit.NewSimulation(200, 30, testkit.WorkedExampleTerms(), 1, 300)

	cfg := NewDefaultConfig()
	cfg.NumLambda = 40
	res, err := NewCrossValidator(cfg).Fit(context.Background(), train.X, train.Y)
	require.NoError(t, err)

	pred, err := Predict(&res.Compact, test.X)
	require.NoError(t, err)
	require.Len(t, pred, test.N)

	// The generating signal variance is ~31; a fitted interaction model
	// should explain most of it out of sample.
	mse := testkit.MSE(test.Y, pred)
	require.Less(t, mse, 10.0)
}

func TestPredictPathMatchesCompactColumn(t *testing.T) {
	sim := testkit.NewSimulation(60, 10, testkit.WorkedExampleTerms(), 1, 4)

	cfg := NewDefaultConfig()
	cfg.NumLambda = 20
	res, err := NewCrossValidator(cfg).Fit(context.Background(), sim.X, sim.Y)
	require.NoError(t, err)

	pathPred, err := PredictPath(res.Fit, sim.X)
	require.NoError(t, err)
	compactPred, err := Predict(&res.Compact, sim.X)
	require.NoError(t, err)

	for i := 0; i < sim.N; i++ {
		require.InDelta(t, pathPred.At(i, res.ChosenIndex), compactPred[i], 1e-9)
	}
}

func TestCompactResultString(t *testing.T) {
	sim := testkit.NewSimulation(60, 10, testkit.WorkedExampleTerms(), 1, 5)

	cfg := NewDefaultConfig()
	cfg.NumLambda = 20
	res, err := NewCrossValidator(cfg).Fit(context.Background(), sim.X, sim.Y)
	require.NoError(t, err)

	out := res.Compact.String()
	require.Contains(t, out, "lambda")
	for _, est := range res.Compact.Estimates {
		require.Contains(t, out, est.Pair.Label())
	}
}
