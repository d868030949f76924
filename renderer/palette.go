// Package renderer turns a reduced board into an image.
package renderer

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/drift/config"
)

// Palette maps a cell's location intensity (visit count over the board
// maximum) and velocity intensity (mean speed over the reference speed),
// both in [0, 1], to a colour. It is only called for visited cells.
type Palette interface {
	Color(loc, vel float64) color.RGBA
}

// PaletteByName returns the palette registered under name.
func PaletteByName(name string) (Palette, error) {
	switch name {
	case config.PaletteClassic:
		return ClassicPalette{}, nil
	case config.PaletteSpeed:
		return SpeedPalette{}, nil
	case config.PaletteHSV:
		return HSVPalette{}, nil
	default:
		return nil, fmt.Errorf("unknown palette %q", name)
	}
}

// ClassicPalette colours by visit density alone: red rises with sqrt of the
// intensity, green wraps in around 0.5 with a steep fourth-power curve and
// blue only lights up above 0.9.
type ClassicPalette struct{}

// Color implements Palette.
func (ClassicPalette) Color(loc, _ float64) color.RGBA {
	r := math.Pow(loc, 0.5)
	g := math.Pow(math.Mod(loc-0.5, 1), 4)
	b := math.Pow(math.Mod(loc-0.9, 1), 0.5)
	return rgb(r, g, b)
}

// SpeedPalette keeps the density curve on red, drives blue from the mean
// speed through the cell and mixes both into the wrapped green channel.
type SpeedPalette struct{}

// Color implements Palette.
func (SpeedPalette) Color(loc, vel float64) color.RGBA {
	r := math.Pow(loc, 0.5)
	g := math.Pow(math.Mod(loc-0.5+vel, 1), 4)
	b := math.Pow(vel, 0.5)
	return rgb(r, g, b)
}

// HSVPalette sweeps hue with speed (slow = blue, fast = red) and
// brightness with density.
type HSVPalette struct{}

// Color implements Palette.
func (HSVPalette) Color(loc, vel float64) color.RGBA {
	hue := 240 * (1 - vel)
	c := colorful.Hsv(hue, 0.85, math.Pow(loc, 0.5)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// rgb scales unit channel values to bytes.
func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{R: toByte(r * 256), G: toByte(g * 256), B: toByte(b * 256), A: 0xff}
}

// toByte converts with saturation: NaN and negatives become 0, anything at
// or above 255 becomes 255.
func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
