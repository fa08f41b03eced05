package testkit

import (
	"sprinter/domain/model"
)

// ContainsPair reports whether pairs includes (l, k).
func ContainsPair(pairs []model.IndexPair, l, k int) bool {
	for _, p := range pairs {
		if p.L == l && p.K == k {
			return true
		}
	}
	return false
}

// EstimateFor returns the estimate for (l, k) in a compact result, if present.
func EstimateFor(c *model.CompactResult, l, k int) (model.Estimate, bool) {
	for _, est := range c.Estimates {
		if est.Pair.L == l && est.Pair.K == k {
			return est, true
		}
	}
	return model.Estimate{}, false
}

// MSE returns the mean squared error between two equal-length vectors.
func MSE(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue))
}
