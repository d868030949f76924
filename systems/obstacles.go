package systems

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
)

// GenerateObstacles draws n obstacles uniformly from the w x h rectangle
// centred on the origin.
func GenerateObstacles(src Source, n int, w, h float64) []components.Obstacle {
	obstacles := make([]components.Obstacle, n)
	for i := range obstacles {
		x := centered(src.Float64(), w)
		y := centered(src.Float64(), h)
		obstacles[i] = components.Obstacle{Pos: r2.Vec{X: x, Y: y}}
	}
	return obstacles
}

// CloneObstacles returns a private copy of an obstacle field for one worker.
func CloneObstacles(obstacles []components.Obstacle) []components.Obstacle {
	return slices.Clone(obstacles)
}
