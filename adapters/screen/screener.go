// Package screen ranks candidate pairwise interactions against a residual
// vector. Scores are computed streaming, one product column at a time, so the
// n x p(p-1)/2 interaction matrix is never materialized; memory stays at one
// float64 per candidate pair plus a per-worker column buffer.
//
// The screening statistic is the squared Pearson correlation between the
// centered elementwise product X_l .* X_k and the residual: symmetric in the
// pair, O(n) per candidate, and comparable across columns of any scale.
package screen

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/domain/model"
)

// Config holds screening parameters.
type Config struct {
	Workers int // parallel scoring workers; 0 selects GOMAXPROCS
}

// Screener is the default ports.InteractionScreener implementation.
type Screener struct {
	cfg Config
}

// New creates a screener; zero-value config selects defaults.
func New(cfg Config) *Screener {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Screener{cfg: cfg}
}

// DefaultNumKeep is the sure-independence-screening budget: ceil(n / ln n),
// clamped to the number of candidate pairs.
func DefaultNumKeep(n, p int) int {
	total := p * (p - 1) / 2
	if n < 2 {
		return min(1, total)
	}
	keep := int(math.Ceil(float64(n) / math.Log(float64(n))))
	return min(keep, total)
}

// Screen scores every pair l < k against the residual and returns the top
// numKeep pairs in descending score order, ties broken by (l,k) lexicographic
// order. The result length is min(numKeep, p(p-1)/2).
func (s *Screener) Screen(ctx context.Context, x *mat.Dense, residual []float64, numKeep int) ([]model.IndexPair, error) {
	n, p := x.Dims()
	if len(residual) != n {
		return nil, core.NewDimensionError("residual", len(residual), n)
	}
	if numKeep < 0 {
		return nil, core.NewNumKeepError(numKeep)
	}

	total := p * (p - 1) / 2
	if numKeep > total {
		numKeep = total
	}
	if numKeep == 0 || total == 0 || n == 0 {
		return []model.IndexPair{}, nil
	}

	// Center the residual once; its sum of squares is shared by every score.
	rMean := floats.Sum(residual) / float64(n)
	rc := make([]float64, n)
	for i, ri := range residual {
		rc[i] = ri - rMean
	}
	srr := floats.Dot(rc, rc)
	if srr == 0 {
		// Zero residual: every score ties at zero, lexicographic order decides.
		return firstPairs(p, numKeep), nil
	}

	// One score slot per pair, written by exactly one worker; rows of the
	// upper triangle are distributed across workers by variable l.
	scores := make([]float64, total)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for l := 1; l < p; l++ {
		l := l
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			base := rowOffset(l, p)
			xl := make([]float64, n)
			mat.Col(xl, l-1, x)
			z := make([]float64, n)
			for k := l + 1; k <= p; k++ {
				for i := 0; i < n; i++ {
					z[i] = xl[i] * x.At(i, k-1)
				}
				scores[base+k-l-1] = scoreColumn(z, rc, srr, n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rank descending by score, ties ascending by (l,k).
	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	out := make([]model.IndexPair, numKeep)
	for i := 0; i < numKeep; i++ {
		out[i] = pairAt(order[i], p)
	}
	return out, nil
}

// scoreColumn computes the squared correlation between the (uncentered)
// product column z and the centered residual rc.
func scoreColumn(z, rc []float64, srr float64, n int) float64 {
	zMean := floats.Sum(z) / float64(n)
	var szz, szr float64
	for i, zi := range z {
		d := zi - zMean
		szz += d * d
		szr += d * rc[i]
	}
	if szz == 0 {
		return 0
	}
	return (szr * szr) / (szz * srr)
}

// rowOffset returns the flat index of pair (l, l+1) in the upper triangle
// enumerated lexicographically: (1,2),(1,3),...,(1,p),(2,3),...
func rowOffset(l, p int) int {
	// Pairs before row l: sum over j<l of (p-j).
	return (l-1)*p - (l-1)*l/2
}

// pairAt inverts rowOffset: flat index back to the (l,k) pair.
func pairAt(idx, p int) model.IndexPair {
	l := 1
	for idx >= p-l {
		idx -= p - l
		l++
	}
	return model.IndexPair{L: l, K: l + 1 + idx}
}

// firstPairs returns the lexicographically first numKeep pairs.
func firstPairs(p, numKeep int) []model.IndexPair {
	out := make([]model.IndexPair, 0, numKeep)
	for l := 1; l < p && len(out) < numKeep; l++ {
		for k := l + 1; k <= p && len(out) < numKeep; k++ {
			out = append(out, model.IndexPair{L: l, K: k})
		}
	}
	return out
}
