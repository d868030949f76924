package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one run.
const (
	PhaseObstacles = "obstacles"
	PhaseSimulate  = "simulate"
	PhaseRender    = "render"
	PhaseEncode    = "encode"
)

// PerfCollector times the consecutive phases of a run.
type PerfCollector struct {
	runStart   time.Time
	phaseStart time.Time
	lastPhase  string
	order      []string
	phases     map[string]time.Duration
	total      time.Duration
}

// NewPerfCollector creates a collector and starts the run clock.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{
		runStart: time.Now(),
		phases:   make(map[string]time.Duration),
	}
}

// StartPhase ends the previous phase, if any, and begins timing a new one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.endPhase(now)
	p.phaseStart = now
	p.lastPhase = phase
	if _, seen := p.phases[phase]; !seen {
		p.order = append(p.order, phase)
		p.phases[phase] = 0
	}
}

// Stop ends the current phase and the run clock.
func (p *PerfCollector) Stop() {
	now := time.Now()
	p.endPhase(now)
	p.lastPhase = ""
	p.total = now.Sub(p.runStart)
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.lastPhase != "" {
		p.phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// PhaseStats is the timing of a single phase.
type PhaseStats struct {
	Phase      string  `csv:"phase"`
	DurationMS float64 `csv:"duration_ms"`
	Pct        float64 `csv:"pct"`
}

// PerfStats holds the timing breakdown of a run.
type PerfStats struct {
	Total  time.Duration
	Phases []PhaseStats // in the order phases were started
}

// Stats returns the breakdown. Call Stop first.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{Total: p.total}
	for _, name := range p.order {
		d := p.phases[name]
		ps := PhaseStats{
			Phase:      name,
			DurationMS: float64(d) / float64(time.Millisecond),
		}
		if p.total > 0 {
			ps.Pct = float64(d) / float64(p.total) * 100
		}
		stats.Phases = append(stats.Phases, ps)
	}
	return stats
}

// Phase returns the duration of a named phase.
func (s PerfStats) Phase(name string) time.Duration {
	for _, ps := range s.Phases {
		if ps.Phase == name {
			return time.Duration(ps.DurationMS * float64(time.Millisecond))
		}
	}
	return 0
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("total_ms", s.Total.Milliseconds()),
	}
	for _, ps := range s.Phases {
		attrs = append(attrs, slog.Float64(ps.Phase+"_ms", ps.DurationMS))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}
