package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/drift/config"
)

func TestParamVectorNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		assert.InDelta(t, raw[i], back[i], 1e-12, pv.Specs[i].Name)
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector(config.Default())
	got := pv.Clamp([]float64{-1, 1000})
	assert.Equal(t, pv.Specs[0].Min, got[0])
	assert.Equal(t, pv.Specs[1].Max, got[1])
}

func TestApplyToConfigRoundsCount(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	require.NoError(t, pv.ApplyToConfig(cfg, []float64{0.02, 7.6}))
	assert.Equal(t, 0.02, cfg.World.G)
	assert.Equal(t, 8, cfg.Obstacles.Count)
	assert.Equal(t, []float64{0.02, 8}, pv.ExtractFromConfig(cfg))
}

func TestCoverageLoss(t *testing.T) {
	assert.Zero(t, coverageLoss(0.3, 0.3))
	assert.InDelta(t, 0.01, coverageLoss(0.2, 0.3), 1e-12)
	assert.Equal(t, coverageLoss(0.4, 0.3), coverageLoss(0.2, 0.3))
}

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Board.Width = 32
	cfg.Board.Height = 18
	cfg.Trajectory.Cycles = 800
	cfg.Parallel.Threads = 2
	cfg.Parallel.ParticlesPerThread = 20
	require.NoError(t, cfg.Refresh())
	return cfg
}

func TestEvaluate(t *testing.T) {
	cfg := smallConfig(t)
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(context.Background(), pv, []int64{1, 2}, 0.5, cfg)

	fitness := fe.Evaluate([]float64{0.01, 4})
	require.NoError(t, fe.Err())

	s := fe.LastSummary()
	assert.Equal(t, 4, s.Obstacles)
	assert.GreaterOrEqual(t, s.Coverage, 0.0)
	assert.LessOrEqual(t, s.Coverage, 1.0)
	assert.InDelta(t, coverageLoss(s.Coverage, 0.5), fitness, 1e-12)

	// The base config is never mutated
	assert.Equal(t, 20, cfg.Obstacles.Count)
}

func TestEvaluateCancelled(t *testing.T) {
	cfg := smallConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fe := NewFitnessEvaluator(ctx, NewParamVector(cfg), []int64{1}, 0.5, cfg)
	fitness := fe.Evaluate([]float64{0.01, 4})

	assert.True(t, math.IsInf(fitness, 1))
	assert.ErrorIs(t, fe.Err(), context.Canceled)
}

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l, err := newEvalLog(path)
	require.NoError(t, err)

	require.NoError(t, l.Append(evalRecord{Eval: 1, G: 0.01, Obstacles: 3}))
	require.NoError(t, l.Append(evalRecord{Eval: 2, G: 0.02, Obstacles: 4}))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "eval,fitness,g,obstacles"))
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}
