package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// fixedSource replays a fixed sequence of draws, wrapping around.
type fixedSource struct {
	draws []float64
	next  int
}

func (s *fixedSource) Float64() float64 {
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

func TestSpawnParticleFixedDraws(t *testing.T) {
	src := &fixedSource{draws: []float64{0.25, 0, 0.64}}
	p := SpawnParticle(src, SpawnParams{Unit: 100, Offset: 1, Speed: 0.2})

	// r = 100*sqrt(0.25)+1, theta = 0, v = (0.8/2+0.5)*0.2
	if math.Abs(p.Pos.X-51) > 1e-12 || math.Abs(p.Pos.Y) > 1e-12 {
		t.Errorf("position = %v, want (51, 0)", p.Pos)
	}
	if math.Abs(p.Vel.X+0.18) > 1e-12 || math.Abs(p.Vel.Y) > 1e-12 {
		t.Errorf("velocity = %v, want (-0.18, 0)", p.Vel)
	}
	if p.Entered {
		t.Error("new particle should not have entered the board")
	}
}

func TestSpawnParticleRing(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	sp := SpawnParams{Unit: 100, Offset: 1, Speed: 0.2}

	for i := 0; i < 10000; i++ {
		p := SpawnParticle(rng, sp)

		r := r2.Norm(p.Pos)
		if r < 1-1e-9 || r > 101+1e-9 {
			t.Fatalf("spawn radius %v outside [1, 101]", r)
		}

		v := p.Speed()
		if v < 0.1-1e-12 || v > 0.2+1e-12 {
			t.Fatalf("spawn speed %v outside [0.1, 0.2]", v)
		}

		// Velocity points straight at the origin
		cos := r2.Dot(p.Pos, p.Vel) / (r * v)
		if math.Abs(cos+1) > 1e-9 {
			t.Fatalf("velocity not radial inward: cos = %v", cos)
		}
	}
}

func TestGenerateObstaclesBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	obstacles := GenerateObstacles(rng, 500, 100, 56.25)

	if len(obstacles) != 500 {
		t.Fatalf("got %d obstacles, want 500", len(obstacles))
	}
	for _, o := range obstacles {
		if o.Pos.X < -50 || o.Pos.X >= 50 || o.Pos.Y < -28.125 || o.Pos.Y >= 28.125 {
			t.Errorf("obstacle %v outside sampling rectangle", o.Pos)
		}
	}

	if got := GenerateObstacles(rng, 0, 100, 100); len(got) != 0 {
		t.Errorf("expected no obstacles, got %d", len(got))
	}
}

func TestCloneObstaclesIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	obstacles := GenerateObstacles(rng, 4, 10, 10)
	orig := obstacles[0].Pos

	clone := CloneObstacles(obstacles)
	clone[0].Pos.X += 1

	if obstacles[0].Pos != orig {
		t.Error("mutating the clone changed the original field")
	}
}
