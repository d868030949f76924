package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

// Field applies the obstacles' force to a particle over one unit timestep.
type Field interface {
	Kick(p *components.Particle)
}

// DirectField sums the contribution of every obstacle exactly.
//
// Each obstacle adds G/r^2 along the obstacle->particle unit vector, so for
// G > 0 particles are pushed away from obstacles. Coincident particle and
// obstacle positions are not guarded.
type DirectField struct {
	Obstacles []components.Obstacle
	G         float64
}

// Kick implements Field.
func (f *DirectField) Kick(p *components.Particle) {
	for _, o := range f.Obstacles {
		dx := p.Pos.X - o.Pos.X
		dy := p.Pos.Y - o.Pos.Y
		r := math.Sqrt(dx*dx + dy*dy)
		dx /= r
		dy /= r
		p.Vel.X += dx * f.G / (r * r)
		p.Vel.Y += dy * f.G / (r * r)
	}
}

// BarnesHutField approximates the summed force with a quadtree. Obstacles
// never move, so the tree is built once.
type BarnesHutField struct {
	plane *barneshut.Plane
	g     float64
	theta float64
}

// NewBarnesHutField builds the quadtree over the obstacles.
func NewBarnesHutField(obstacles []components.Obstacle, g, theta float64) (*BarnesHutField, error) {
	particles := make([]barneshut.Particle2, len(obstacles))
	for i, o := range obstacles {
		particles[i] = o
	}
	plane, err := barneshut.NewPlane(particles)
	if err != nil {
		return nil, fmt.Errorf("building obstacle quadtree: %w", err)
	}
	return &BarnesHutField{plane: plane, g: g, theta: theta}, nil
}

// Kick implements Field.
func (f *BarnesHutField) Kick(p *components.Particle) {
	// Gravity2 points from the particle to the mass; our force points away
	probe := components.Obstacle{Pos: p.Pos}
	a := f.plane.ForceOn(probe, f.theta, barneshut.Gravity2)
	p.Vel = r2.Add(p.Vel, r2.Scale(-f.g, a))
}

// NewField builds the configured force solver over a worker's obstacles.
func NewField(obstacles []components.Obstacle, cfg *config.Config) (Field, error) {
	if cfg.Trajectory.Solver == config.SolverBarnesHut && len(obstacles) > 0 {
		return NewBarnesHutField(obstacles, cfg.World.G, cfg.Trajectory.Theta)
	}
	return &DirectField{Obstacles: obstacles, G: cfg.World.G}, nil
}
