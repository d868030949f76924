package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/renderer"
	"github.com/pthm-cable/drift/sim"
	"github.com/pthm-cable/drift/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	imagePath := flag.String("output", "", "Image file to write (empty = output.image from config)")
	outputDir := flag.String("output-dir", "", "Directory for CSV stats, config snapshot and the image")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	debug := flag.Bool("debug", false, "Log every trajectory that runs out of cycles")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, rngSeed, *imagePath, *outputDir); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, seed int64, imagePath, outputDir string) error {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	palette, err := renderer.PaletteByName(cfg.Derived.Palette)
	if err != nil {
		return err
	}

	if imagePath == "" {
		imagePath = out.Path(cfg.Output.Image)
	}

	slog.Info("starting simulation",
		"seed", seed,
		"width", cfg.Board.Width,
		"height", cfg.Board.Height,
		"channels", cfg.Board.Channels,
		"obstacles", cfg.Obstacles.Count,
		"threads", cfg.Parallel.Threads,
		"particles", cfg.Derived.TotalParticles,
		"cycles", cfg.Trajectory.Cycles,
	)

	perf := telemetry.NewPerfCollector()

	perf.StartPhase(telemetry.PhaseObstacles)
	s := sim.New(cfg, seed)

	perf.StartPhase(telemetry.PhaseSimulate)
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Workers {
		slog.Info("worker finished", "stats", w)
	}

	perf.StartPhase(telemetry.PhaseRender)
	img := renderer.Render(res.Board, palette, cfg.Render.SpeedReference)

	perf.StartPhase(telemetry.PhaseEncode)
	if err := renderer.WritePNG(imagePath, img); err != nil {
		return err
	}
	perf.Stop()

	summary := telemetry.Summarize(seed, len(s.Obstacles()), res.Board, res.Workers)
	summary.LogStats()
	stats := perf.Stats()
	stats.LogStats()

	if err := out.WriteWorkers(res.Workers); err != nil {
		return err
	}
	if err := out.WritePerf(stats); err != nil {
		return err
	}
	if err := out.WriteSummary(summary); err != nil {
		return err
	}

	slog.Info("image written", "path", imagePath)
	return nil
}
