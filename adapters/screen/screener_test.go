package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/domain/model"
	"sprinter/internal/testkit"
)

func TestScreenFindsPlantedInteractions(t *testing.T) {
	// Residual is exactly the interaction signal: both planted pairs must
	// rank at the very top.
	sim := testkit.NewSimulation(200, 30, nil, 0, 11)
	residual := make([]float64, sim.N)
	for i := 0; i < sim.N; i++ {
		residual[i] = 3*sim.X.At(i, 0)*sim.X.At(i, 2) - 4*sim.X.At(i, 3)*sim.X.At(i, 4)
	}

	pairs, err := New(Config{}).Screen(context.Background(), sim.X, residual, 2)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	require.True(t, testkit.ContainsPair(pairs, 1, 3), "pair (1,3) should be screened in, got %v", pairs)
	require.True(t, testkit.ContainsPair(pairs, 4, 5), "pair (4,5) should be screened in, got %v", pairs)
}

func TestScreenNeverExceedsCandidateCount(t *testing.T) {
	sim := testkit.NewSimulation(20, 4, nil, 1, 1)
	residual := make([]float64, 20)
	copy(residual, sim.Y)

	pairs, err := New(Config{}).Screen(context.Background(), sim.X, residual, 1000)
	require.NoError(t, err)
	require.Len(t, pairs, 4*3/2)
}

func TestScreenPairsAreOrderedAndWellFormed(t *testing.T) {
	sim := testkit.NewSimulation(50, 10, testkit.WorkedExampleTerms(), 1, 3)

	pairs, err := New(Config{}).Screen(context.Background(), sim.X, sim.Y, 15)
	require.NoError(t, err)
	require.Len(t, pairs, 15)

	seen := map[model.IndexPair]bool{}
	for _, p := range pairs {
		require.True(t, p.L >= 1 && p.L < p.K, "pair %v must satisfy 1 <= l < k", p)
		require.LessOrEqual(t, p.K, 10)
		require.False(t, seen[p], "pair %v returned twice", p)
		seen[p] = true
	}
}

func TestScreenDeterministic(t *testing.T) {
	sim := testkit.NewSimulation(60, 12, testkit.WorkedExampleTerms(), 1, 5)

	s := New(Config{Workers: 4})
	a, err := s.Screen(context.Background(), sim.X, sim.Y, 10)
	require.NoError(t, err)
	b, err := s.Screen(context.Background(), sim.X, sim.Y, 10)
	require.NoError(t, err)
	require.Equal(t, a, b)

	// A different worker count must not change the ranking either.
	c, err := New(Config{Workers: 1}).Screen(context.Background(), sim.X, sim.Y, 10)
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestScreenTieBreakLexicographic(t *testing.T) {
	// Zero residual ties every score at zero; lexicographic order decides.
	x := mat.NewDense(4, 4, []float64{
		1, 2, 3, 4,
		2, 3, 4, 5,
		3, 4, 5, 6,
		4, 5, 6, 7,
	})
	residual := make([]float64, 4)

	pairs, err := New(Config{}).Screen(context.Background(), x, residual, 3)
	require.NoError(t, err)
	require.Equal(t, []model.IndexPair{{L: 1, K: 2}, {L: 1, K: 3}, {L: 1, K: 4}}, pairs)
}

func TestScreenInvalidInputs(t *testing.T) {
	x := mat.NewDense(5, 3, nil)

	_, err := New(Config{}).Screen(context.Background(), x, make([]float64, 4), 2)
	require.True(t, core.IsInvalidInput(err))

	_, err = New(Config{}).Screen(context.Background(), x, make([]float64, 5), -1)
	require.True(t, core.IsInvalidInput(err))
}

func TestScreenCancellation(t *testing.T) {
	sim := testkit.NewSimulation(50, 40, nil, 1, 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{}).Screen(ctx, sim.X, sim.Y, 5)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultNumKeep(t *testing.T) {
	// ceil(100 / ln 100) = ceil(21.71...) = 22
	require.Equal(t, 22, DefaultNumKeep(100, 200))

	// Clamped to the number of candidate pairs.
	require.Equal(t, 3, DefaultNumKeep(100, 3))
}
