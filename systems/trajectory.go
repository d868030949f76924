package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/board"
	"github.com/pthm-cable/drift/camera"
	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

// Outcome records why a trajectory stopped.
type Outcome uint8

const (
	OutcomeCompleted Outcome = iota // ran through every cycle
	OutcomeEscaped                  // left the escape radius
	OutcomeExited                   // left the board after having entered it
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Trajectory summarises one particle's life.
type Trajectory struct {
	Outcome Outcome
	Steps   int // position updates performed, never more than Physics.Cycles
	Visits  int // board writes
}

// Physics holds per-trajectory integration limits.
type Physics struct {
	Cycles        int
	EscapeRadius2 float64

	// ExitAfterEntry stops a particle once it leaves the board after having
	// been on it. Particles pushed back onto the board later lose those visits.
	ExitAfterEntry bool
}

// PhysicsFromConfig extracts integration limits.
func PhysicsFromConfig(cfg *config.Config) Physics {
	return Physics{
		Cycles:         cfg.Trajectory.Cycles,
		EscapeRadius2:  cfg.Derived.EscapeRadius2,
		ExitAfterEntry: cfg.Trajectory.ExitAfterEntry,
	}
}

// Step advances a particle by one unit timestep: explicit Euler on the
// position, then the field's kick on the velocity.
func Step(p *components.Particle, field Field) {
	p.Pos = r2.Add(p.Pos, p.Vel)
	field.Kick(p)
}

// Simulate runs one particle until it escapes, exits the board (when
// ExitAfterEntry is set) or runs out of cycles, recording every on-board
// position into b. The speed recorded for a visit is the speed after that
// step's kick.
func Simulate(p *components.Particle, field Field, b *board.Board, cam *camera.Camera, phys Physics) Trajectory {
	var t Trajectory
	for t.Steps < phys.Cycles {
		if p.Dist2() > phys.EscapeRadius2 {
			t.Outcome = OutcomeEscaped
			return t
		}

		Step(p, field)
		t.Steps++

		i, ok := b.Index(cam.WorldToCell(p.Pos))
		if ok {
			b.Visit(i, p.Speed())
			p.Entered = true
			t.Visits++
			continue
		}
		if p.Entered && phys.ExitAfterEntry {
			t.Outcome = OutcomeExited
			return t
		}
	}
	t.Outcome = OutcomeCompleted
	return t
}
