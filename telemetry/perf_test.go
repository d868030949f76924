package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector()

	pc.StartPhase(PhaseSimulate)
	time.Sleep(2 * time.Millisecond)
	pc.StartPhase(PhaseRender)
	time.Sleep(1 * time.Millisecond)
	pc.Stop()

	stats := pc.Stats()

	if stats.Total <= 0 {
		t.Error("expected positive total duration")
	}

	if len(stats.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(stats.Phases))
	}

	if stats.Phases[0].Phase != PhaseSimulate || stats.Phases[1].Phase != PhaseRender {
		t.Errorf("phases out of order: %+v", stats.Phases)
	}

	if stats.Phase(PhaseSimulate) < 2*time.Millisecond {
		t.Errorf("simulate phase too short: %v", stats.Phase(PhaseSimulate))
	}

	var pct float64
	for _, ps := range stats.Phases {
		pct += ps.Pct
	}
	if pct <= 0 || pct > 100.0001 {
		t.Errorf("phase percentages sum to %v", pct)
	}
}

func TestPerfCollector_RepeatedPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector()

	pc.StartPhase(PhaseEncode)
	time.Sleep(time.Millisecond)
	pc.StartPhase(PhaseRender)
	pc.StartPhase(PhaseEncode)
	time.Sleep(time.Millisecond)
	pc.Stop()

	stats := pc.Stats()
	if len(stats.Phases) != 2 {
		t.Fatalf("expected 2 distinct phases, got %d", len(stats.Phases))
	}
	if stats.Phase(PhaseEncode) < 2*time.Millisecond {
		t.Errorf("encode phase should accumulate both spans, got %v", stats.Phase(PhaseEncode))
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	pc := NewPerfCollector()
	pc.Stop()

	stats := pc.Stats()
	if len(stats.Phases) != 0 {
		t.Errorf("expected no phases, got %d", len(stats.Phases))
	}
	if stats.Phase(PhaseSimulate) != 0 {
		t.Error("unknown phase should report zero")
	}
}
