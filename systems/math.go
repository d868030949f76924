package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Source supplies independent uniform draws in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// polar converts polar coordinates to a vector.
func polar(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// centered maps a uniform draw to [-extent/2, extent/2).
func centered(u, extent float64) float64 {
	return (u - 0.5) * extent
}
