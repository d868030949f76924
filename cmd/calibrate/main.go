package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/drift/config"
)

// evalRecord is one row of calibrate_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	G         float64 `csv:"g"`
	Obstacles int     `csv:"obstacles"`
	Coverage  float64 `csv:"coverage"`
	MeanSteps float64 `csv:"mean_steps"`
	Escaped   int     `csv:"escaped"`
	Error     string  `csv:"error"`
}

// evalLog appends evalRecords to a CSV file, writing the header once.
type evalLog struct {
	f      *os.File
	w      *gocsv.SafeCSVWriter
	header bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	return &evalLog{f: f, w: gocsv.NewSafeCSVWriter(csv.NewWriter(f))}, nil
}

func (l *evalLog) Append(r evalRecord) error {
	rows := []evalRecord{r}
	if !l.header {
		l.header = true
		return gocsv.MarshalCSV(&rows, l.w)
	}
	return gocsv.MarshalCSVWithoutHeaders(&rows, l.w)
}

func (l *evalLog) Close() error {
	return l.f.Close()
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	target := flag.Float64("target", 0.35, "Target fraction of lit board cells")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	width := flag.Int("width", 192, "Board width for evaluation runs")
	height := flag.Int("height", 108, "Board height for evaluation runs")
	particles := flag.Int("particles", 200, "Particles per thread for evaluation runs")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *target <= 0 || *target > 1 {
		log.Fatalf("--target must be in (0, 1], got %g", *target)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Evaluation runs use a reduced board and particle count
	evalCfg := config.Cfg().Clone()
	evalCfg.Board.Width = *width
	evalCfg.Board.Height = *height
	evalCfg.Parallel.ParticlesPerThread = *particles
	if err := evalCfg.Refresh(); err != nil {
		log.Fatalf("invalid evaluation config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := NewParamVector(evalCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(ctx, params, evalSeeds, *target, evalCfg)

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	evals, err := newEvalLog(logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer evals.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			summary := evaluator.LastSummary()
			rec := evalRecord{
				Eval:      evalCount,
				Fitness:   fitness,
				G:         raw[0],
				Obstacles: summary.Obstacles,
				Coverage:  summary.Coverage,
				MeanSteps: summary.MeanSteps,
				Escaped:   summary.Escaped,
			}
			if err := evaluator.Err(); err != nil {
				rec.Error = err.Error()
			}
			if err := evals.Append(rec); err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: g=%.5f obstacles=%d coverage=%.3f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, raw[0], summary.Obstacles, summary.Coverage, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // sim.Run already fans out across threads
	}
	method := &optimize.NelderMead{}

	initX := params.Normalize(params.DefaultVector())

	fmt.Printf("Starting Nelder-Mead calibration with %d parameters, target coverage=%.3f, max_evals=%d\n",
		params.Dim(), *target, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, board %dx%d, %d particles\n",
		*seeds, *width, *height, evalCfg.Derived.TotalParticles)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("calibration ended: %v", err)
	}

	if bestParams == nil {
		if result == nil {
			log.Fatal("no evaluations completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	// Best values go onto the full-size base config, not the reduced one
	bestCfg := config.Cfg().Clone()
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		log.Fatalf("best parameters rejected: %v", err)
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
