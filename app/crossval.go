package app

import (
	"context"
	"math"
	"math/rand"

	montstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"sprinter/domain/core"
	"sprinter/domain/model"
	"sprinter/internal"
)

// CrossValidator tunes the Stage-3 penalty by K-fold cross-validation. The
// lambda path and screening budget are fixed once on the full data so the
// per-fold error curves stay comparable; lambda is the only cross-validated
// parameter.
type CrossValidator struct {
	cfg *Config
	log *internal.Logger
}

// NewCrossValidator creates a cross-validator; a nil config selects defaults.
func NewCrossValidator(cfg *Config) *CrossValidator {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &CrossValidator{cfg: cfg, log: internal.NewDefaultLogger()}
}

// Fit runs the full pipeline on all data, repeats it across folds with the
// shared path, selects the penalty minimizing the averaged held-out squared
// error (ties resolved toward more regularization), and compacts the
// full-data fit at the chosen penalty.
func (cv *CrossValidator) Fit(ctx context.Context, x *mat.Dense, y []float64) (*model.CVResult, error) {
	nFolds := cv.cfg.NumFolds
	if nFolds == 0 {
		nFolds = 5
	}
	if nFolds < 2 {
		return nil, core.ErrBadFoldCount
	}
	n, _ := x.Dims()
	if len(y) != n {
		return nil, core.NewDimensionError("y", len(y), n)
	}
	if nFolds > n {
		return nil, core.ErrBadFoldCount
	}

	// Full-data fit first: it fixes the shared lambda path and screening
	// budget, and its coefficient column at the chosen lambda becomes the
	// compact result.
	fullFit, err := NewFitter(cv.cfg).Fit(ctx, x, y)
	if err != nil {
		return nil, err
	}
	lambda := fullFit.Path.Lambda
	nlam := len(lambda)

	folds := assignFolds(n, nFolds, cv.cfg.Seed)
	foldCfg := cv.cfg.withOverrides(lambda, fullFit.NumKeep)

	foldSSE := make([][]float64, nFolds)
	foldMSE := make([][]float64, nFolds)

	g, gctx := errgroup.WithContext(ctx)
	if w := cv.cfg.Workers; w > 0 {
		g.SetLimit(w)
	}
	for fi := range folds {
		fi := fi
		g.Go(func() error {
			test := folds[fi]
			train := complementRows(n, test)

			xTrain, yTrain := subsetRows(x, y, train)
			xTest, yTest := subsetRows(x, y, test)

			fit, err := NewFitter(foldCfg).Fit(gctx, xTrain, yTrain)
			if err != nil {
				return err
			}
			preds, err := PredictPath(fit, xTest)
			if err != nil {
				return err
			}

			sse := make([]float64, nlam)
			for l := 0; l < nlam; l++ {
				for i, yi := range yTest {
					d := yi - preds.At(i, l)
					sse[l] += d * d
				}
			}
			mse := make([]float64, nlam)
			for l := range sse {
				mse[l] = sse[l] / float64(len(yTest))
			}
			foldSSE[fi] = sse
			foldMSE[fi] = mse
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Average held-out squared error per lambda, plus its standard error
	// across folds.
	cvErr := make([]float64, nlam)
	cvSE := make([]float64, nlam)
	perFold := make([]float64, nFolds)
	for l := 0; l < nlam; l++ {
		var total float64
		for fi := 0; fi < nFolds; fi++ {
			total += foldSSE[fi][l]
			perFold[fi] = foldMSE[fi][l]
		}
		cvErr[l] = total / float64(n)
		if sd, err := montstats.StandardDeviationSample(perFold); err == nil {
			cvSE[l] = sd / math.Sqrt(float64(nFolds))
		}
	}

	// Lambda is in decreasing order; strict improvement keeps the larger
	// (more regularized) value on ties.
	chosen := 0
	for l := 1; l < nlam; l++ {
		if cvErr[l] < cvErr[chosen] {
			chosen = l
		}
	}
	cv.log.Infof("cv: chose lambda[%d] = %g with error %g", chosen, lambda[chosen], cvErr[chosen])

	compact, err := fullFit.CompactAt(chosen)
	if err != nil {
		return nil, err
	}

	return &model.CVResult{
		RunID:        core.NewRunID(),
		Fit:          fullFit,
		Lambda:       lambda,
		CVError:      cvErr,
		CVErrorSE:    cvSE,
		ChosenIndex:  chosen,
		ChosenLambda: lambda[chosen],
		Compact:      compact,
	}, nil
}

// assignFolds shuffles row indices with the seed and cuts the permutation
// into contiguous blocks whose sizes differ by at most one.
func assignFolds(n, nFolds int, seed int64) [][]int {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, nFolds)
	for fi := range folds {
		lo := fi * n / nFolds
		hi := (fi + 1) * n / nFolds
		folds[fi] = perm[lo:hi]
	}
	return folds
}

func complementRows(n int, exclude []int) []int {
	drop := make(map[int]bool, len(exclude))
	for _, i := range exclude {
		drop[i] = true
	}
	out := make([]int, 0, n-len(exclude))
	for i := 0; i < n; i++ {
		if !drop[i] {
			out = append(out, i)
		}
	}
	return out
}

func subsetRows(x *mat.Dense, y []float64, rows []int) (*mat.Dense, []float64) {
	_, p := x.Dims()
	xs := mat.NewDense(len(rows), p, nil)
	ys := make([]float64, len(rows))
	for i, r := range rows {
		for j := 0; j < p; j++ {
			xs.Set(i, j, x.At(r, j))
		}
		ys[i] = y[r]
	}
	return xs, ys
}
