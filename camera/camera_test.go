package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNew(t *testing.T) {
	cam := New(960, 540, 100)

	dx, dy := cam.CellSize()
	if math.Abs(dx-100.0/960) > 1e-12 || math.Abs(dy-100.0/540) > 1e-12 {
		t.Errorf("unexpected cell size (%f, %f)", dx, dy)
	}
}

func TestWorldToCellCorners(t *testing.T) {
	cam := New(960, 540, 100)

	testCases := []struct {
		name string
		p    r2.Vec
		w, h int
	}{
		{"top-left corner", r2.Vec{X: -50, Y: -50}, 0, 0},
		{"origin", r2.Vec{X: 0, Y: 0}, 480, 270},
		{"just inside far corner", r2.Vec{X: 49.999, Y: 49.999}, 959, 539},
		{"far edge", r2.Vec{X: 50, Y: 50}, 960, 540},
		{"just left of frame", r2.Vec{X: -50.01, Y: 0}, -1, 270},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := cam.WorldToCell(tc.p)
			if w != tc.w || h != tc.h {
				t.Errorf("WorldToCell(%v) = (%d, %d), want (%d, %d)", tc.p, w, h, tc.w, tc.h)
			}
		})
	}
}

func TestContains(t *testing.T) {
	cam := New(96, 54, 100)

	inside := []r2.Vec{{X: 0, Y: 0}, {X: -50, Y: -50}, {X: 49.9, Y: 49.9}, {X: -49, Y: 49}}
	for _, p := range inside {
		if !cam.Contains(p) {
			t.Errorf("expected %v on the grid", p)
		}
	}

	outside := []r2.Vec{{X: 50, Y: 0}, {X: 0, Y: 50}, {X: -50.001, Y: 0}, {X: 0, Y: -51}, {X: 300, Y: 300}}
	for _, p := range outside {
		if cam.Contains(p) {
			t.Errorf("expected %v off the grid", p)
		}
	}
}

func TestCellToWorldRoundtrip(t *testing.T) {
	cam := New(96, 54, 100)

	for w := 0; w < cam.Width; w += 7 {
		for h := 0; h < cam.Height; h += 5 {
			gw, gh := cam.WorldToCell(cam.CellToWorld(w, h))
			if gw != w || gh != h {
				t.Errorf("roundtrip failed: (%d,%d) -> (%d,%d)", w, h, gw, gh)
			}
		}
	}
}

func TestWorldToCellDeterministic(t *testing.T) {
	cam := New(96, 54, 100)
	p := r2.Vec{X: 12.345, Y: -6.789}

	w0, h0 := cam.WorldToCell(p)
	for i := 0; i < 10; i++ {
		if w, h := cam.WorldToCell(p); w != w0 || h != h0 {
			t.Fatalf("mapping changed between calls: (%d,%d) vs (%d,%d)", w0, h0, w, h)
		}
	}
}
