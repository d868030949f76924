package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/drift/board"
)

// RunSummary holds aggregated statistics for a finished run.
type RunSummary struct {
	Seed      int64 `csv:"seed"`
	Obstacles int   `csv:"obstacles"`
	Particles int   `csv:"particles"`

	// Trajectory outcomes
	Completed int     `csv:"completed"`
	Escaped   int     `csv:"escaped"`
	Exited    int     `csv:"exited"`
	MeanSteps float64 `csv:"mean_steps"`

	// Board
	TotalVisits uint64  `csv:"total_visits"`
	LitCells    int     `csv:"lit_cells"`
	Coverage    float64 `csv:"coverage"` // LitCells / cells
	MaxVisits   uint64  `csv:"max_visits"`
	MaxAvgSpeed float64 `csv:"max_avg_speed"`

	// Spread of visits across workers
	WorkerVisitsMean float64 `csv:"worker_visits_mean"`
	WorkerVisitsStd  float64 `csv:"worker_visits_std"`
}

// Summarize computes run statistics from the reduced board and per-worker stats.
func Summarize(seed int64, obstacles int, b *board.Board, workers []WorkerStats) RunSummary {
	s := RunSummary{
		Seed:        seed,
		Obstacles:   obstacles,
		TotalVisits: b.Total(),
		LitCells:    b.Lit(),
		MaxVisits:   b.Max(),
		MaxAvgSpeed: b.MaxAverageSpeed(),
	}
	if n := b.Len(); n > 0 {
		s.Coverage = float64(s.LitCells) / float64(n)
	}

	var steps int64
	visits := make([]float64, len(workers))
	for i, w := range workers {
		s.Particles += w.Particles
		s.Completed += w.Completed
		s.Escaped += w.Escaped
		s.Exited += w.Exited
		steps += w.Steps
		visits[i] = float64(w.Visits)
	}
	if s.Particles > 0 {
		s.MeanSteps = float64(steps) / float64(s.Particles)
	}

	switch len(visits) {
	case 0:
	case 1:
		s.WorkerVisitsMean = visits[0]
	default:
		s.WorkerVisitsMean, s.WorkerVisitsStd = stat.MeanStdDev(visits, nil)
	}

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("seed", s.Seed),
		slog.Int("obstacles", s.Obstacles),
		slog.Int("particles", s.Particles),
		slog.Int("completed", s.Completed),
		slog.Int("escaped", s.Escaped),
		slog.Int("exited", s.Exited),
		slog.Float64("mean_steps", s.MeanSteps),
		slog.Uint64("total_visits", s.TotalVisits),
		slog.Int("lit_cells", s.LitCells),
		slog.Float64("coverage", s.Coverage),
		slog.Uint64("max_visits", s.MaxVisits),
		slog.Float64("max_avg_speed", s.MaxAvgSpeed),
		slog.Float64("worker_visits_mean", s.WorkerVisitsMean),
		slog.Float64("worker_visits_std", s.WorkerVisitsStd),
	)
}

// LogStats logs the summary using slog.
func (s RunSummary) LogStats() {
	slog.Info("run summary", "summary", s)
}
