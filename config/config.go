// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Force solvers.
const (
	SolverDirect    = "direct"
	SolverBarnesHut = "barneshut"
)

// Palettes.
const (
	PaletteAuto    = "auto"
	PaletteClassic = "classic"
	PaletteSpeed   = "speed"
	PaletteHSV     = "hsv"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	World      WorldConfig      `yaml:"world"`
	Obstacles  ObstaclesConfig  `yaml:"obstacles"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Render     RenderConfig     `yaml:"render"`
	Output     OutputConfig     `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// BoardConfig holds board and image resolution.
type BoardConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Channels int `yaml:"channels"` // 1 = visits only, 2 = visits + speed sum
}

// WorldConfig holds world scale and force parameters.
type WorldConfig struct {
	Unit         float64 `yaml:"unit"`
	G            float64 `yaml:"g"`
	EscapeRadius float64 `yaml:"escape_radius"` // multiples of Unit
}

// ObstaclesConfig holds obstacle field parameters.
type ObstaclesConfig struct {
	Count  int     `yaml:"count"`
	Margin float64 `yaml:"margin"`
}

// SpawnConfig holds particle spawn parameters.
type SpawnConfig struct {
	Offset float64 `yaml:"offset"`
	Speed  float64 `yaml:"speed"`
}

// TrajectoryConfig holds per-particle integration parameters.
type TrajectoryConfig struct {
	Cycles         int     `yaml:"cycles"`
	ExitAfterEntry bool    `yaml:"exit_after_entry"`
	Solver         string  `yaml:"solver"`
	Theta          float64 `yaml:"theta"`
}

// ParallelConfig holds worker fan-out parameters.
type ParallelConfig struct {
	Threads            int `yaml:"threads"`
	ParticlesPerThread int `yaml:"particles_per_thread"`
}

// RenderConfig holds colour mapping parameters.
type RenderConfig struct {
	Palette        string  `yaml:"palette"`
	SpeedReference float64 `yaml:"speed_reference"`
}

// OutputConfig holds output locations.
type OutputConfig struct {
	Image string `yaml:"image"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	EscapeRadius2  float64 // (EscapeRadius*Unit)^2
	ObstacleW      float64 // Width of the obstacle sampling rectangle
	ObstacleH      float64 // Height of the obstacle sampling rectangle
	Palette        string  // Palette with "auto" resolved
	DualChannel    bool
	TotalParticles int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. It panics if they do not parse,
// which can only happen if defaults.yaml is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.Channels != 1 && c.Board.Channels != 2 {
		errs = append(errs, fmt.Errorf("board.channels must be 1 or 2, got %d", c.Board.Channels))
	}
	if c.World.Unit <= 0 {
		errs = append(errs, fmt.Errorf("world.unit must be positive, got %g", c.World.Unit))
	}
	if c.World.EscapeRadius <= 0 {
		errs = append(errs, fmt.Errorf("world.escape_radius must be positive, got %g", c.World.EscapeRadius))
	}
	if c.Obstacles.Count < 0 {
		errs = append(errs, fmt.Errorf("obstacles.count must not be negative, got %d", c.Obstacles.Count))
	}
	if c.Trajectory.Cycles < 0 {
		errs = append(errs, fmt.Errorf("trajectory.cycles must not be negative, got %d", c.Trajectory.Cycles))
	}
	switch c.Trajectory.Solver {
	case SolverDirect, SolverBarnesHut:
	default:
		errs = append(errs, fmt.Errorf("unknown trajectory.solver %q", c.Trajectory.Solver))
	}
	if c.Parallel.Threads <= 0 {
		errs = append(errs, fmt.Errorf("parallel.threads must be positive, got %d", c.Parallel.Threads))
	}
	if c.Parallel.ParticlesPerThread < 0 {
		errs = append(errs, fmt.Errorf("parallel.particles_per_thread must not be negative, got %d", c.Parallel.ParticlesPerThread))
	}
	switch c.Render.Palette {
	case PaletteAuto, PaletteClassic, PaletteHSV:
	case PaletteSpeed:
		if c.Board.Channels != 2 {
			errs = append(errs, errors.New("render.palette speed needs board.channels 2"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown render.palette %q", c.Render.Palette))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	r := c.World.EscapeRadius * c.World.Unit
	c.Derived.EscapeRadius2 = r * r

	// Obstacles fill the board's aspect rectangle, longest side = unit
	m := float64(max(c.Board.Width, c.Board.Height))
	c.Derived.ObstacleW = float64(c.Board.Width) / m * c.World.Unit * c.Obstacles.Margin
	c.Derived.ObstacleH = float64(c.Board.Height) / m * c.World.Unit * c.Obstacles.Margin

	c.Derived.DualChannel = c.Board.Channels == 2
	c.Derived.Palette = c.Render.Palette
	if c.Derived.Palette == PaletteAuto {
		if c.Derived.DualChannel {
			c.Derived.Palette = PaletteSpeed
		} else {
			c.Derived.Palette = PaletteClassic
		}
	}

	c.Derived.TotalParticles = c.Parallel.Threads * c.Parallel.ParticlesPerThread
}

// Clone returns a deep copy with derived values recomputed.
func (c *Config) Clone() *Config {
	cp := *c
	cp.computeDerived()
	return &cp
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
