package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

// SpawnParams controls where particles start and how fast.
type SpawnParams struct {
	Unit   float64 // spawn ring outer radius (before Offset)
	Offset float64 // added to every spawn radius
	Speed  float64 // maximum initial speed; the minimum is half of it
}

// SpawnParamsFromConfig extracts spawn parameters.
func SpawnParamsFromConfig(cfg *config.Config) SpawnParams {
	return SpawnParams{
		Unit:   cfg.World.Unit,
		Offset: cfg.Spawn.Offset,
		Speed:  cfg.Spawn.Speed,
	}
}

// SpawnParticle draws a particle on the disc of radius Unit+Offset, moving
// straight towards the origin. The sqrt on the radius draw spreads spawns
// evenly over the disc area; the sqrt on the speed draw skews speeds towards
// the upper end of [Speed/2, Speed].
func SpawnParticle(src Source, sp SpawnParams) components.Particle {
	r := sp.Unit*math.Sqrt(src.Float64()) + sp.Offset
	theta := src.Float64() * 2 * math.Pi
	v := (math.Sqrt(src.Float64())/2 + 0.5) * sp.Speed

	return components.Particle{
		Pos: polar(r, theta),
		Vel: r2.Scale(-v, polar(1, theta)),
	}
}
