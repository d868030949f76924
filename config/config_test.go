package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 960, cfg.Board.Width)
	assert.Equal(t, 540, cfg.Board.Height)
	assert.Equal(t, 100.0, cfg.World.Unit)
	assert.Equal(t, 0.01, cfg.World.G)
	assert.Equal(t, 20, cfg.Obstacles.Count)
	assert.Equal(t, 4, cfg.Parallel.Threads)
	assert.Equal(t, 10000, cfg.Trajectory.Cycles)
	assert.Equal(t, 1000, cfg.Parallel.ParticlesPerThread)

	assert.InDelta(t, 90000.0, cfg.Derived.EscapeRadius2, 1e-9)
	assert.InDelta(t, 100.0, cfg.Derived.ObstacleW, 1e-9)
	assert.InDelta(t, 56.25, cfg.Derived.ObstacleH, 1e-9)
	assert.True(t, cfg.Derived.DualChannel)
	assert.Equal(t, PaletteSpeed, cfg.Derived.Palette)
	assert.Equal(t, 4000, cfg.Derived.TotalParticles)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := []byte("board:\n  channels: 1\nobstacles:\n  count: 3\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Obstacles.Count)
	assert.Equal(t, 960, cfg.Board.Width, "untouched keys keep defaults")
	assert.False(t, cfg.Derived.DualChannel)
	assert.Equal(t, PaletteClassic, cfg.Derived.Palette)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Board.Width = 0 }},
		{"three channels", func(c *Config) { c.Board.Channels = 3 }},
		{"negative unit", func(c *Config) { c.World.Unit = -1 }},
		{"no threads", func(c *Config) { c.Parallel.Threads = 0 }},
		{"unknown solver", func(c *Config) { c.Trajectory.Solver = "verlet" }},
		{"unknown palette", func(c *Config) { c.Render.Palette = "rainbow" }},
		{"speed palette on one channel", func(c *Config) {
			c.Board.Channels = 1
			c.Render.Palette = PaletteSpeed
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.World.G = 0.05
	require.NoError(t, cfg.Refresh())

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.05, loaded.World.G)
	assert.Equal(t, cfg.Derived, loaded.Derived)
}
