package renderer

import (
	"image"
	"image/color"

	"github.com/pthm-cable/drift/board"
)

// Render maps every board cell to one pixel. Unvisited cells are black.
//
// Location intensity is the cell's visit count over the board maximum.
// Velocity intensity is the cell's mean speed over speedRef, clamped to 1;
// a speedRef of 0 normalises by the board's largest mean speed. On a
// single-channel board the velocity intensity is always 0.
func Render(b *board.Board, p Palette, speedRef float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.W, b.H))

	maxVisits := float64(b.Max())
	if speedRef <= 0 {
		speedRef = b.MaxAverageSpeed()
	}

	black := color.RGBA{A: 0xff}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			i := x + y*b.W
			c := b.Visits[i]
			if c == 0 {
				img.SetRGBA(x, y, black)
				continue
			}

			loc := float64(c) / maxVisits
			var vel float64
			if b.DualChannel() && speedRef > 0 {
				vel = min(b.AverageSpeed(i)/speedRef, 1)
			}
			img.SetRGBA(x, y, p.Color(loc, vel))
		}
	}
	return img
}
