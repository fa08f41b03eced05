package features

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/domain/model"
)

func testMatrix() *mat.Dense {
	// 3 observations, 3 variables
	return mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
}

func TestBuildColumnAlignment(t *testing.T) {
	x := testMatrix()
	table := model.IndexTable{
		{L: 0, K: 1}, // X1
		{L: 0, K: 3}, // X3
		{L: 2, K: 2}, // X2^2
		{L: 1, K: 3}, // X1*X3
	}

	out, err := Build(x, table)
	require.NoError(t, err)

	n, m := out.Dims()
	require.Equal(t, 3, n)
	require.Equal(t, len(table), m)

	for i := 0; i < n; i++ {
		x1, x2, x3 := x.At(i, 0), x.At(i, 1), x.At(i, 2)
		require.Equal(t, x1, out.At(i, 0), "column 0 should be X1")
		require.Equal(t, x3, out.At(i, 1), "column 1 should be X3")
		require.Equal(t, x2*x2, out.At(i, 2), "column 2 should be X2^2")
		require.Equal(t, x1*x3, out.At(i, 3), "column 3 should be X1*X3")
	}
}

// Identity reconstruction: building from the full main-effect table must
// reproduce the input matrix exactly.
func TestBuildIdentityReconstruction(t *testing.T) {
	x := testMatrix()
	out, err := Build(x, model.MainEffects(3))
	require.NoError(t, err)
	require.True(t, mat.Equal(x, out))
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	x := testMatrix()
	want := mat.DenseCopyOf(x)

	_, err := Build(x, model.MainEffects(3).WithSquares(3).WithPairs([]model.IndexPair{{L: 1, K: 2}}))
	require.NoError(t, err)
	require.True(t, mat.Equal(want, x), "Build must not mutate the input matrix")
}

func TestBuildRejectsBadPairs(t *testing.T) {
	x := testMatrix()
	for _, table := range []model.IndexTable{
		{{L: 0, K: 4}},  // variable out of range
		{{L: 3, K: 1}},  // l > k
		{{L: -1, K: 2}}, // negative l
	} {
		_, err := Build(x, table)
		require.Error(t, err)
		require.True(t, core.IsInvalidInput(err))
	}
}

func TestBuildEmptyTable(t *testing.T) {
	out, err := Build(testMatrix(), nil)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestColumn(t *testing.T) {
	x := testMatrix()
	dst := make([]float64, 3)

	require.NoError(t, Column(dst, x, model.IndexPair{L: 2, K: 3}))
	for i := 0; i < 3; i++ {
		require.Equal(t, x.At(i, 1)*x.At(i, 2), dst[i])
	}

	err := Column(make([]float64, 2), x, model.IndexPair{L: 0, K: 1})
	require.Error(t, err)
	require.True(t, core.IsInvalidInput(err))
}
