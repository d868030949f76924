// Package board implements the per-cell statistics grid that trajectories
// write into and the reducer sums.
package board

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Board is a dense W x H grid stored row-major (index x + y*W).
//
// Visits counts how often a particle landed in each cell. Speed, when
// present, accumulates the particle speed at each of those visits, so
// Speed[i]/Visits[i] is the mean speed through the cell. A board without a
// Speed plane is single-channel.
type Board struct {
	W, H   int
	Visits []uint64
	Speed  []float64
}

// New creates a zeroed board with one or two channels.
func New(w, h, channels int) *Board {
	b := &Board{
		W:      w,
		H:      h,
		Visits: make([]uint64, w*h),
	}
	if channels > 1 {
		b.Speed = make([]float64, w*h)
	}
	return b
}

// DualChannel reports whether the board tracks speed.
func (b *Board) DualChannel() bool {
	return b.Speed != nil
}

// Len returns the number of cells.
func (b *Board) Len() int {
	return len(b.Visits)
}

// Index returns the flat index of cell (x, y), or (-1, false) when the cell
// lies off the board.
func (b *Board) Index(x, y int) (int, bool) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return -1, false
	}
	return x + y*b.W, true
}

// Visit records one visit to cell i at the given speed. i must come from
// Index. The speed is ignored on a single-channel board.
func (b *Board) Visit(i int, speed float64) {
	b.Visits[i]++
	if b.Speed != nil {
		b.Speed[i] += speed
	}
}

// Add sums other into b cell by cell. Both boards must have the same shape.
func (b *Board) Add(other *Board) {
	if b.W != other.W || b.H != other.H || b.DualChannel() != other.DualChannel() {
		panic(fmt.Sprintf("board: adding %dx%d (dual=%t) to %dx%d (dual=%t)",
			other.W, other.H, other.DualChannel(), b.W, b.H, b.DualChannel()))
	}
	for i, v := range other.Visits {
		b.Visits[i] += v
	}
	if b.Speed != nil {
		floats.Add(b.Speed, other.Speed)
	}
}

// Max returns the largest visit count.
func (b *Board) Max() uint64 {
	var m uint64
	for _, v := range b.Visits {
		m = max(m, v)
	}
	return m
}

// Total returns the sum of all visit counts.
func (b *Board) Total() uint64 {
	var t uint64
	for _, v := range b.Visits {
		t += v
	}
	return t
}

// Lit returns the number of cells visited at least once.
func (b *Board) Lit() int {
	n := 0
	for _, v := range b.Visits {
		if v > 0 {
			n++
		}
	}
	return n
}

// AverageSpeed returns the mean speed through cell i, or 0 for an unvisited
// cell or a single-channel board.
func (b *Board) AverageSpeed(i int) float64 {
	if b.Speed == nil || b.Visits[i] == 0 {
		return 0
	}
	return b.Speed[i] / float64(b.Visits[i])
}

// MaxAverageSpeed returns the largest AverageSpeed over visited cells.
func (b *Board) MaxAverageSpeed() float64 {
	if b.Speed == nil {
		return 0
	}
	avg := make([]float64, 0, b.Lit())
	for i, v := range b.Visits {
		if v > 0 {
			avg = append(avg, b.Speed[i]/float64(v))
		}
	}
	if len(avg) == 0 {
		return 0
	}
	return floats.Max(avg)
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	cp := &Board{
		W:      b.W,
		H:      b.H,
		Visits: append([]uint64(nil), b.Visits...),
	}
	if b.Speed != nil {
		cp.Speed = append([]float64(nil), b.Speed...)
	}
	return cp
}

// Reset zeroes every cell.
func (b *Board) Reset() {
	clear(b.Visits)
	clear(b.Speed)
}
