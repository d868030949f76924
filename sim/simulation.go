// Package sim runs the Monte Carlo simulation: it owns the obstacle field,
// fans trajectories out over workers and reduces their boards.
package sim

import (
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/drift/board"
	"github.com/pthm-cable/drift/camera"
	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/telemetry"
)

// Simulation holds everything shared read-only by the workers of one run.
type Simulation struct {
	cfg       *config.Config
	cam       *camera.Camera
	obstacles []components.Obstacle
	spawn     systems.SpawnParams
	phys      systems.Physics
	seed      uint64

	// newField builds each worker's force solver
	newField func([]components.Obstacle, *config.Config) (systems.Field, error)
}

// Result is the outcome of a completed run.
type Result struct {
	Board   *board.Board
	Workers []telemetry.WorkerStats
}

// New creates a simulation and draws its obstacle field from the seed.
// Worker streams are derived from the same seed.
func New(cfg *config.Config, seed int64) *Simulation {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	obstacles := systems.GenerateObstacles(rng, cfg.Obstacles.Count, cfg.Derived.ObstacleW, cfg.Derived.ObstacleH)
	return NewWithObstacles(cfg, seed, obstacles)
}

// NewWithObstacles creates a simulation over a given obstacle field.
func NewWithObstacles(cfg *config.Config, seed int64, obstacles []components.Obstacle) *Simulation {
	s := &Simulation{
		cfg:       cfg,
		cam:       camera.New(cfg.Board.Width, cfg.Board.Height, cfg.World.Unit),
		obstacles: obstacles,
		spawn:     systems.SpawnParamsFromConfig(cfg),
		phys:      systems.PhysicsFromConfig(cfg),
		seed:      uint64(seed),
		newField:  systems.NewField,
	}

	slog.Debug("simulation created",
		"seed", seed,
		"obstacles", len(obstacles),
		"threads", cfg.Parallel.Threads,
		"particles_per_thread", cfg.Parallel.ParticlesPerThread,
		"cycles", cfg.Trajectory.Cycles,
		"solver", cfg.Trajectory.Solver,
	)
	return s
}

// Obstacles returns the shared obstacle field. Callers must not modify it.
func (s *Simulation) Obstacles() []components.Obstacle {
	return s.obstacles
}

// Camera returns the world-to-board mapping.
func (s *Simulation) Camera() *camera.Camera {
	return s.cam
}

// newBoard returns an empty board shaped by the config.
func (s *Simulation) newBoard() *board.Board {
	return board.New(s.cfg.Board.Width, s.cfg.Board.Height, s.cfg.Board.Channels)
}
