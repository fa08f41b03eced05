// Package testkit provides synthetic regression fixtures for tests: designs
// with known main effects and planted pairwise interactions, generated
// deterministically from a seed.
package testkit

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"sprinter/domain/model"
)

// Term is one generating-model component: a coefficient on an index pair.
type Term struct {
	Pair model.IndexPair
	Coef float64
}

// Simulation is a generated dataset with its ground truth.
type Simulation struct {
	X     *mat.Dense
	Y     []float64
	N     int
	P     int
	Truth []Term
	Noise float64
}

// WorkedExampleTerms is the generating model of the canonical scenario:
// y = x1 - 2*x2 + 3*x1*x3 - 4*x4*x5 + noise.
func WorkedExampleTerms() []Term {
	return []Term{
		{Pair: model.IndexPair{L: 0, K: 1}, Coef: 1},
		{Pair: model.IndexPair{L: 0, K: 2}, Coef: -2},
		{Pair: model.IndexPair{L: 1, K: 3}, Coef: 3},
		{Pair: model.IndexPair{L: 4, K: 5}, Coef: -4},
	}
}

// NewSimulation draws an n x p standard-normal design and builds the response
// from the given terms plus N(0, noise^2) errors, all from one seeded source.
func NewSimulation(n, p int, terms []Term, noise float64, seed int64) *Simulation {
	rng := rand.New(rand.NewSource(seed))

	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}

	y := make([]float64, n)
	for i := range y {
		v := noise * rng.NormFloat64()
		for _, term := range terms {
			v += term.Coef * termValue(x, i, term.Pair)
		}
		y[i] = v
	}

	return &Simulation{X: x, Y: y, N: n, P: p, Truth: terms, Noise: noise}
}

// WorkedExample generates the canonical n=100, p=200 scenario.
func WorkedExample(seed int64) *Simulation {
	return NewSimulation(100, 200, WorkedExampleTerms(), 1.0, seed)
}

func termValue(x *mat.Dense, row int, pair model.IndexPair) float64 {
	switch {
	case pair.IsMain():
		return x.At(row, pair.K-1)
	case pair.IsSquare():
		v := x.At(row, pair.K-1)
		return v * v
	default:
		return x.At(row, pair.L-1) * x.At(row, pair.K-1)
	}
}

// TrueInteractions returns the interaction pairs of the generating model.
func (s *Simulation) TrueInteractions() []model.IndexPair {
	var out []model.IndexPair
	for _, term := range s.Truth {
		if term.Pair.IsInteraction() {
			out = append(out, term.Pair)
		}
	}
	return out
}
