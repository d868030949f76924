// Package components defines the value types the simulation moves around.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Obstacle is a fixed point mass. Obstacles are created once per run and
// never mutated afterwards.
type Obstacle struct {
	Pos r2.Vec
}

// Coord2 implements barneshut.Particle2.
func (o Obstacle) Coord2() r2.Vec { return o.Pos }

// Mass implements barneshut.Particle2. All obstacles weigh the same; the
// force strength is carried by G.
func (o Obstacle) Mass() float64 { return 1 }

// Particle is the transient state of one trajectory. It is owned by the
// worker running it and discarded when the trajectory ends.
type Particle struct {
	Pos r2.Vec
	Vel r2.Vec

	// Entered is set once the particle has landed on a board cell.
	Entered bool
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}

// Dist2 returns the squared distance from the origin.
func (p *Particle) Dist2() float64 {
	return r2.Norm2(p.Pos)
}
