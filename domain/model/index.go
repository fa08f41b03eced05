// Package model holds the immutable data records produced by a sprinter fit:
// the index table labelling every coefficient slot, the coefficient path, and
// the compact cross-validated result. All records are plain data consumed by
// free functions; nothing here mutates after construction.
package model

import (
	"fmt"

	"sprinter/domain/core"
)

// IndexPair labels one coefficient slot. Variables are numbered 1..p.
//
//   - L == 0           -> main effect of variable K
//   - L == K, L > 0    -> squared effect of variable K
//   - 0 < L < K        -> interaction X_L * X_K
type IndexPair struct {
	L int `json:"l"`
	K int `json:"k"`
}

func (ip IndexPair) IsMain() bool        { return ip.L == 0 }
func (ip IndexPair) IsSquare() bool      { return ip.L > 0 && ip.L == ip.K }
func (ip IndexPair) IsInteraction() bool { return ip.L > 0 && ip.L < ip.K }

// Validate checks the pair against the number of main-effect variables p.
func (ip IndexPair) Validate(p int) error {
	if ip.K < 1 || ip.K > p {
		return core.NewIndexPairError(ip.L, ip.K, p)
	}
	if ip.L < 0 || ip.L > ip.K {
		return core.NewIndexPairError(ip.L, ip.K, p)
	}
	return nil
}

// Label renders a human-readable term name: "X3", "X3^2" or "X3*X5".
func (ip IndexPair) Label() string {
	switch {
	case ip.IsMain():
		return fmt.Sprintf("X%d", ip.K)
	case ip.IsSquare():
		return fmt.Sprintf("X%d^2", ip.K)
	default:
		return fmt.Sprintf("X%d*X%d", ip.L, ip.K)
	}
}

// IndexTable is the ordered sequence of index pairs keying the coefficient
// matrix rows. Row order is fixed at construction: main effects first, then
// squared effects when enabled, then screened interactions in screening order.
type IndexTable []IndexPair

// MainEffects returns the table of the p main-effect rows in variable order.
func MainEffects(p int) IndexTable {
	table := make(IndexTable, 0, p)
	for k := 1; k <= p; k++ {
		table = append(table, IndexPair{L: 0, K: k})
	}
	return table
}

// WithSquares appends the p squared-effect rows in variable order.
func (t IndexTable) WithSquares(p int) IndexTable {
	out := make(IndexTable, len(t), len(t)+p)
	copy(out, t)
	for k := 1; k <= p; k++ {
		out = append(out, IndexPair{L: k, K: k})
	}
	return out
}

// WithPairs appends interaction rows, preserving the given order.
func (t IndexTable) WithPairs(pairs []IndexPair) IndexTable {
	out := make(IndexTable, len(t), len(t)+len(pairs))
	copy(out, t)
	return append(out, pairs...)
}

// Validate checks every row against p.
func (t IndexTable) Validate(p int) error {
	for i, ip := range t {
		if err := ip.Validate(p); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Labels returns the rendered term name of every row, in row order.
func (t IndexTable) Labels() []string {
	labels := make([]string, len(t))
	for i, ip := range t {
		labels[i] = ip.Label()
	}
	return labels
}
