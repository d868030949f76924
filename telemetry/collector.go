package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/drift/systems"
)

// WorkerStats accumulates trajectory outcomes for one worker.
type WorkerStats struct {
	Worker     int     `csv:"worker"`
	Particles  int     `csv:"particles"`
	Completed  int     `csv:"completed"`
	Escaped    int     `csv:"escaped"`
	Exited     int     `csv:"exited"`
	Steps      int64   `csv:"steps"`
	Visits     int64   `csv:"visits"`
	DurationMS float64 `csv:"duration_ms"`
}

// Record adds one finished trajectory.
func (w *WorkerStats) Record(t systems.Trajectory) {
	w.Particles++
	w.Steps += int64(t.Steps)
	w.Visits += int64(t.Visits)

	switch t.Outcome {
	case systems.OutcomeCompleted:
		w.Completed++
	case systems.OutcomeEscaped:
		w.Escaped++
	case systems.OutcomeExited:
		w.Exited++
	}
}

// SetDuration stores the worker's wall time.
func (w *WorkerStats) SetDuration(d time.Duration) {
	w.DurationMS = float64(d) / float64(time.Millisecond)
}

// StepsPerSecond returns the worker's integration throughput.
func (w WorkerStats) StepsPerSecond() float64 {
	if w.DurationMS <= 0 {
		return 0
	}
	return float64(w.Steps) / (w.DurationMS / 1000)
}

// LogValue implements slog.LogValuer for structured logging.
func (w WorkerStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("worker", w.Worker),
		slog.Int("particles", w.Particles),
		slog.Int("completed", w.Completed),
		slog.Int("escaped", w.Escaped),
		slog.Int("exited", w.Exited),
		slog.Int64("steps", w.Steps),
		slog.Int64("visits", w.Visits),
		slog.Float64("duration_ms", w.DurationMS),
	)
}
