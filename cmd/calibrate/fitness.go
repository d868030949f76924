package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/sim"
	"github.com/pthm-cable/drift/telemetry"
)

// FitnessEvaluator runs reduced simulations and scores their coverage.
type FitnessEvaluator struct {
	ctx        context.Context
	params     *ParamVector
	seeds      []int64
	target     float64
	baseConfig *config.Config

	mu          sync.Mutex
	lastSummary telemetry.RunSummary
	lastErr     error
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, seeds []int64, target float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:        ctx,
		params:     params,
		seeds:      seeds,
		target:     target,
		baseConfig: baseCfg,
	}
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() telemetry.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Err returns the error that stopped the most recent evaluation, if any.
func (fe *FitnessEvaluator) Err() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastErr
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the squared distance between mean coverage and the target.
// A failed run scores +Inf so the search moves away from it.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		fe.setResult(telemetry.RunSummary{}, err)
		return math.Inf(1)
	}

	var mean telemetry.RunSummary
	for _, seed := range fe.seeds {
		s, err := fe.runSimulation(cfg, seed)
		if err != nil {
			fe.setResult(telemetry.RunSummary{}, fmt.Errorf("seed %d: %w", seed, err))
			return math.Inf(1)
		}
		mean.Coverage += s.Coverage
		mean.MeanSteps += s.MeanSteps
		mean.TotalVisits += s.TotalVisits
		mean.Escaped += s.Escaped
		mean.Obstacles = s.Obstacles
	}

	n := float64(len(fe.seeds))
	mean.Coverage /= n
	mean.MeanSteps /= n
	mean.TotalVisits /= uint64(len(fe.seeds))
	mean.Escaped /= len(fe.seeds)
	fe.setResult(mean, nil)

	return coverageLoss(mean.Coverage, fe.target)
}

func (fe *FitnessEvaluator) setResult(s telemetry.RunSummary, err error) {
	fe.mu.Lock()
	fe.lastSummary = s
	fe.lastErr = err
	fe.mu.Unlock()
}

// runSimulation executes a single run and summarises it.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (telemetry.RunSummary, error) {
	s := sim.New(cfg, seed)
	res, err := s.Run(fe.ctx)
	if err != nil {
		return telemetry.RunSummary{}, err
	}
	return telemetry.Summarize(seed, len(s.Obstacles()), res.Board, res.Workers), nil
}

func coverageLoss(coverage, target float64) float64 {
	d := coverage - target
	return d * d
}
