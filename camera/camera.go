// Package camera maps world coordinates onto board cells.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera frames the square [-Unit/2, Unit/2) x [-Unit/2, Unit/2) of the
// world onto a Width x Height grid. Cells are not square unless the grid is.
type Camera struct {
	// Unit is the world-space side of the framed square
	Unit float64

	// Grid dimensions in cells
	Width, Height int

	half           float64
	scaleX, scaleY float64 // cells per world unit
}

// New creates a camera centred on the origin.
func New(width, height int, unit float64) *Camera {
	return &Camera{
		Unit:   unit,
		Width:  width,
		Height: height,
		half:   unit / 2,
		scaleX: float64(width) / unit,
		scaleY: float64(height) / unit,
	}
}

// WorldToCell converts a world position to cell coordinates. The result may
// lie outside the grid; pass it to board.Index to get a checked index.
func (c *Camera) WorldToCell(p r2.Vec) (w, h int) {
	// Floor, not truncation: points just left of the frame must not land in column 0
	w = int(math.Floor((p.X + c.half) * c.scaleX))
	h = int(math.Floor((p.Y + c.half) * c.scaleY))
	return w, h
}

// CellToWorld returns the world position of a cell's centre.
func (c *Camera) CellToWorld(w, h int) r2.Vec {
	return r2.Vec{
		X: (float64(w)+0.5)/c.scaleX - c.half,
		Y: (float64(h)+0.5)/c.scaleY - c.half,
	}
}

// Contains reports whether a world position falls on the grid.
func (c *Camera) Contains(p r2.Vec) bool {
	w, h := c.WorldToCell(p)
	return w >= 0 && w < c.Width && h >= 0 && h < c.Height
}

// CellSize returns the world-space extent of one cell.
func (c *Camera) CellSize() (dx, dy float64) {
	return 1 / c.scaleX, 1 / c.scaleY
}
