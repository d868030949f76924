package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestParticleSpeed(t *testing.T) {
	p := Particle{Vel: r2.Vec{X: 3, Y: 4}}
	if got := p.Speed(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Speed() = %v, want 5", got)
	}
}

func TestParticleDist2(t *testing.T) {
	p := Particle{Pos: r2.Vec{X: -3, Y: 4}}
	if got := p.Dist2(); got != 25 {
		t.Errorf("Dist2() = %v, want 25", got)
	}
}

func TestObstacleIsUnitMass(t *testing.T) {
	o := Obstacle{Pos: r2.Vec{X: 1, Y: 2}}
	if o.Mass() != 1 {
		t.Errorf("Mass() = %v, want 1", o.Mass())
	}
	if o.Coord2() != o.Pos {
		t.Errorf("Coord2() = %v, want %v", o.Coord2(), o.Pos)
	}
}
