package app

import (
	"context"
	"math"
	"time"

	montstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"sprinter/adapters/features"
	"sprinter/adapters/screen"
	"sprinter/adapters/solver"
	"sprinter/domain/core"
	"sprinter/domain/model"
	"sprinter/internal"
	"sprinter/ports"
)

// Fitter runs the three-stage reluctant-interaction pipeline: a main-effect
// fit to obtain residuals, interaction screening against those residuals, and
// a joint penalized fit over the augmented feature set. Stages never retry or
// loop back; any stage error propagates unchanged.
type Fitter struct {
	cfg      *Config
	solver   ports.PenalizedSolver
	screener ports.InteractionScreener
	paths    *solver.Solver // path construction uses the default solver's scaling
	log      *internal.Logger
}

// NewFitter wires the default solver and screener. A nil config selects
// defaults.
func NewFitter(cfg *Config) *Fitter {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	sol := solver.New(cfg.Solver)
	scr := screen.New(screen.Config{Workers: workersOf(cfg)})
	return &Fitter{
		cfg:      cfg,
		solver:   sol,
		screener: scr,
		paths:    sol,
		log:      internal.NewDefaultLogger(),
	}
}

// NewFitterWith substitutes custom solver and screener implementations.
func NewFitterWith(cfg *Config, sol ports.PenalizedSolver, scr ports.InteractionScreener) *Fitter {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Fitter{
		cfg:      cfg,
		solver:   sol,
		screener: scr,
		paths:    solver.New(cfg.Solver),
		log:      internal.NewDefaultLogger(),
	}
}

func workersOf(cfg *Config) int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return 0 // adapters resolve 0 to GOMAXPROCS
}

// Fit runs the full pipeline on the main-effect matrix x and response y.
func (f *Fitter) Fit(ctx context.Context, x *mat.Dense, y []float64) (*model.FitResult, error) {
	n, p := x.Dims()
	if len(y) != n {
		return nil, core.NewDimensionError("y", len(y), n)
	}
	if n < 1 || p < 1 {
		return nil, core.NewDimensionError("X", n, 1)
	}
	if f.cfg.Lambda != nil {
		if err := model.ValidateLambdaPath(f.cfg.Lambda); err != nil {
			return nil, err
		}
	}

	numKeep := f.cfg.NumKeep
	if numKeep <= 0 {
		numKeep = screen.DefaultNumKeep(n, p)
	}
	if maxPairs := p * (p - 1) / 2; numKeep > maxPairs {
		numKeep = maxPairs
	}

	// Stage 1: main-effect (and squared) fit, for residuals only.
	start := time.Now()
	stage1 := model.MainEffects(p)
	if f.cfg.Square {
		stage1 = stage1.WithSquares(p)
	}
	residual, err := f.stageOneResidual(stage1, x, y)
	if err != nil {
		return nil, err
	}
	trace := []model.StageResult{stageResult(model.StageMainEffects, start, len(stage1), len(stage1), residual)}
	f.log.Debugf("fitter: stage 1 done, %d features, %v", len(stage1), trace[0].Duration)

	// Stage 2: screen all l<k pairs against the residual.
	start = time.Now()
	pairs, err := f.screener.Screen(ctx, x, residual, numKeep)
	if err != nil {
		return nil, err
	}
	trace = append(trace, stageResult(model.StageScreen, start, p*(p-1)/2, len(pairs), residual))
	f.log.Debugf("fitter: stage 2 kept %d of %d pairs", len(pairs), p*(p-1)/2)

	// Stage 3: joint fit over the augmented feature set.
	start = time.Now()
	table := stage1.WithPairs(pairs)
	aug, err := features.Build(x, table)
	if err != nil {
		return nil, err
	}

	lambda := f.cfg.Lambda
	if lambda == nil {
		nlam, ratio := f.cfg.resolve(n, len(table))
		lambda, err = f.paths.LambdaPath(aug, y, nil, nlam, ratio)
		if err != nil {
			return nil, err
		}
	}

	pf, err := f.solver.FitPath(aug, y, lambda, nil, nil)
	if err != nil {
		return nil, err
	}
	nonzero := 0
	last := pf.NumLambda() - 1
	for i := 0; i < pf.NumTerms(); i++ {
		if pf.Coef(i, last) != 0 {
			nonzero++
		}
	}
	trace = append(trace, stageResult(model.StageJoint, start, len(table), nonzero, nil))

	return &model.FitResult{
		RunID:       core.NewRunID(),
		N:           n,
		P:           p,
		Square:      f.cfg.Square,
		NumKeep:     numKeep,
		Table:       table,
		Path:        *pf,
		Trace:       trace,
		Fingerprint: core.FingerprintFit(n, p, f.cfg.Square, numKeep, lambda),
	}, nil
}

// stageOneResidual fits the Stage-1 model at a single interior penalty,
// warm-started down a short path from the saturating value, and returns the
// training residual.
func (f *Fitter) stageOneResidual(table model.IndexTable, x *mat.Dense, y []float64) ([]float64, error) {
	f1, err := features.Build(x, table)
	if err != nil {
		return nil, err
	}

	n := len(y)
	_, ratio := f.cfg.resolve(n, len(table))
	maxLam, err := f.paths.MaxLambda(f1, y, nil)
	if err != nil {
		return nil, err
	}
	if maxLam <= 0 {
		maxLam = 1.0
	}
	// The interior penalty sits at the geometric midpoint of the path range;
	// a short warm-started descent to it keeps the solve cheap and stable.
	path := solver.Logspace(maxLam, maxLam*math.Sqrt(ratio), 10)

	pf, err := f.solver.FitPath(f1, y, path, nil, nil)
	if err != nil {
		return nil, err
	}

	last := pf.NumLambda() - 1
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		pred := pf.Intercepts[last]
		for j := 0; j < pf.NumTerms(); j++ {
			if c := pf.Coef(j, last); c != 0 {
				pred += c * f1.At(i, j)
			}
		}
		residual[i] = y[i] - pred
	}
	return residual, nil
}

func stageResult(name model.StageName, start time.Time, processed, selected int, residual []float64) model.StageResult {
	m := model.StageMetrics{ProcessedCount: processed, SelectedCount: selected}
	if len(residual) > 0 {
		m.ResidualMean, _ = montstats.Mean(residual)
		m.ResidualStdDev, _ = montstats.StandardDeviationSample(residual)
	}
	return model.StageResult{Name: name, Duration: time.Since(start), Metrics: m}
}
