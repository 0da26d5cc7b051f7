// Package gradient implements the overlap-count-to-RGBA color palette:
// piecewise-linear interpolation between ordered stops, in both preset and
// custom forms.
package gradient

import (
	"fmt"
	"image/color"
	"sort"
)

// Stop is a gradient control point.
type Stop struct {
	Position float64 // in [0,1]
	Color    color.RGBA
}

// Gradient is an ordered, validated sequence of stops with position strictly
// increasing, first stop at 0.0 and last at 1.0.
type Gradient struct {
	stops []Stop
}

// New validates and wraps stops into a Gradient.
func New(stops []Stop) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient: need at least 2 stops, got %d", len(stops))
	}
	if stops[0].Position != 0.0 {
		return nil, fmt.Errorf("gradient: first stop must be at position 0.0, got %v", stops[0].Position)
	}
	if stops[len(stops)-1].Position != 1.0 {
		return nil, fmt.Errorf("gradient: last stop must be at position 1.0, got %v", stops[len(stops)-1].Position)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Position <= stops[i-1].Position {
			return nil, fmt.Errorf("gradient: stop positions must strictly increase (stop %d: %v <= %v)",
				i, stops[i].Position, stops[i-1].Position)
		}
	}
	return &Gradient{stops: append([]Stop(nil), stops...)}, nil
}

// At maps an overlap count c in [0,255] to an RGBA color, using t =
// c/midpoint clamped to [0,1] as the interpolation parameter onto the stop
// list.
//
// Count 0 always renders fully transparent (alpha 0), regardless of the
// RGB listed at the position-0 stop, so the base map beneath an empty tile
// is never occluded.
func (g *Gradient) At(count uint8, midpoint int) color.RGBA {
	if count == 0 {
		c := g.stops[0].Color
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0}
	}
	if midpoint < 1 {
		midpoint = 1
	}

	t := float64(count) / float64(midpoint)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return g.interpolate(t)
}

func (g *Gradient) interpolate(t float64) color.RGBA {
	// Find the bracketing stops by binary search: idx is the first stop
	// whose position is >= t.
	idx := sort.Search(len(g.stops), func(i int) bool { return g.stops[i].Position >= t })
	if idx == 0 {
		return g.stops[0].Color
	}
	if idx >= len(g.stops) {
		return g.stops[len(g.stops)-1].Color
	}

	lo, hi := g.stops[idx-1], g.stops[idx]
	span := hi.Position - lo.Position
	var frac float64
	if span > 0 {
		frac = (t - lo.Position) / span
	}

	return color.RGBA{
		R: lerp(lo.Color.R, hi.Color.R, frac),
		G: lerp(lo.Color.G, hi.Color.G, frac),
		B: lerp(lo.Color.B, hi.Color.B, frac),
		A: lerp(lo.Color.A, hi.Color.A, frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// Custom builds a 3-stop gradient: (0,min), (0.5,mid), (1,max).
func Custom(min, mid, max color.RGBA) (*Gradient, error) {
	return New([]Stop{
		{Position: 0.0, Color: min},
		{Position: 0.5, Color: mid},
		{Position: 1.0, Color: max},
	})
}

// Preset names.
const (
	PresetOrange  = "orange"
	PresetPinkish = "pinkish"
	PresetBlueRed = "blue_red"
	PresetRed     = "red"
)

var presets = map[string][]Stop{
	PresetOrange: {
		{Position: 0.0, Color: color.RGBA{R: 0x33, G: 0x13, B: 0x00, A: 0xFF}},
		{Position: 0.5, Color: color.RGBA{R: 0xCC, G: 0x55, B: 0x00, A: 0xFF}},
		{Position: 1.0, Color: color.RGBA{R: 0xFF, G: 0xCC, B: 0x00, A: 0xFF}},
	},
	PresetPinkish: {
		{Position: 0.0, Color: color.RGBA{R: 0x2A, G: 0x00, B: 0x1A, A: 0xFF}},
		{Position: 0.5, Color: color.RGBA{R: 0xC2, G: 0x1E, B: 0x7A, A: 0xFF}},
		{Position: 1.0, Color: color.RGBA{R: 0xFF, G: 0xC0, B: 0xE3, A: 0xFF}},
	},
	PresetBlueRed: {
		{Position: 0.0, Color: color.RGBA{R: 0x00, G: 0x14, B: 0x33, A: 0xFF}},
		{Position: 0.5, Color: color.RGBA{R: 0x1E, G: 0x5A, B: 0xC2, A: 0xFF}},
		{Position: 1.0, Color: color.RGBA{R: 0xE3, G: 0x1E, B: 0x1E, A: 0xFF}},
	},
	PresetRed: {
		{Position: 0.0, Color: color.RGBA{R: 0x26, G: 0x00, B: 0x00, A: 0xFF}},
		{Position: 0.5, Color: color.RGBA{R: 0x99, G: 0x10, B: 0x10, A: 0xFF}},
		{Position: 1.0, Color: color.RGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF}},
	},
}

// Preset resolves a named palette to its stop list.
func Preset(name string) (*Gradient, error) {
	stops, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("gradient: unknown preset %q", name)
	}
	return New(stops)
}

// PresetNames returns the known preset names in a stable order, for CLI
// help text and parameter validation.
func PresetNames() []string {
	return []string{PresetOrange, PresetPinkish, PresetBlueRed, PresetRed}
}
