// Package features constructs engineered feature columns from a raw
// main-effect matrix and an index table. Output column order always matches
// index table row order; every downstream component relies on that alignment.
package features

import (
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/domain/model"
)

// Build produces the engineered matrix for the given table: column i is the
// main effect, square or elementwise product named by table[i]. Pure: xMain
// is never mutated. An empty table yields a nil matrix.
func Build(xMain *mat.Dense, table model.IndexTable) (*mat.Dense, error) {
	if len(table) == 0 {
		return nil, nil
	}
	n, p := xMain.Dims()
	if err := table.Validate(p); err != nil {
		return nil, err
	}

	out := mat.NewDense(n, len(table), nil)
	col := make([]float64, n)
	for i, pair := range table {
		fillColumn(col, xMain, pair)
		out.SetCol(i, col)
	}
	return out, nil
}

// Column computes the single engineered column for one index pair into dst,
// which must have length equal to xMain's row count. Used by the predictor to
// reconstruct only the columns a compact result needs.
func Column(dst []float64, xMain *mat.Dense, pair model.IndexPair) error {
	n, p := xMain.Dims()
	if len(dst) != n {
		return core.NewDimensionError("destination", len(dst), n)
	}
	if err := pair.Validate(p); err != nil {
		return err
	}
	fillColumn(dst, xMain, pair)
	return nil
}

func fillColumn(dst []float64, xMain *mat.Dense, pair model.IndexPair) {
	n, _ := xMain.Dims()
	k := pair.K - 1
	switch {
	case pair.IsMain():
		for i := 0; i < n; i++ {
			dst[i] = xMain.At(i, k)
		}
	case pair.IsSquare():
		for i := 0; i < n; i++ {
			v := xMain.At(i, k)
			dst[i] = v * v
		}
	default:
		l := pair.L - 1
		for i := 0; i < n; i++ {
			dst[i] = xMain.At(i, l) * xMain.At(i, k)
		}
	}
}
