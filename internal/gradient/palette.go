package gradient

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// PaletteKind tags which variant of a Palette is populated.
type PaletteKind int

const (
	// KindPreset selects a named stop list.
	KindPreset PaletteKind = iota
	// KindCustom selects an explicit min/mid/max/midpoint palette.
	KindCustom
)

// Palette is a tagged union over the two ways a request can specify a
// color scale: a named preset, or three explicit colors plus a midpoint.
// Normalization into a resolved Gradient happens in Resolve, which the
// renderer calls once per render; request parsing does not resolve it.
type Palette struct {
	Kind     PaletteKind
	Preset   string
	Min      color.RGBA
	Mid      color.RGBA
	Max      color.RGBA
	Midpoint int
}

// DefaultMidpoint is used when the request omits midpoint.
const DefaultMidpoint = 10

// Resolve normalizes p into a ready-to-use Gradient and its midpoint.
func (p Palette) Resolve() (*Gradient, int, error) {
	midpoint := p.Midpoint
	if midpoint < 1 {
		midpoint = DefaultMidpoint
	}

	switch p.Kind {
	case KindCustom:
		g, err := Custom(p.Min, p.Mid, p.Max)
		if err != nil {
			return nil, 0, err
		}
		return g, midpoint, nil
	case KindPreset:
		g, err := Preset(p.Preset)
		if err != nil {
			return nil, 0, err
		}
		return g, midpoint, nil
	default:
		return nil, 0, fmt.Errorf("gradient: unknown palette kind %d", p.Kind)
	}
}

// CacheKey returns a stable digest of the fully-normalized palette,
// lowercasing and folding in the resolved midpoint, suitable for use as
// the palette-hash component of a tile cache key.
func (p Palette) CacheKey() string {
	var b strings.Builder
	midpoint := p.Midpoint
	if midpoint < 1 {
		midpoint = DefaultMidpoint
	}

	switch p.Kind {
	case KindCustom:
		fmt.Fprintf(&b, "custom:%06x:%06x:%06x:%d",
			rgbHex(p.Min), rgbHex(p.Mid), rgbHex(p.Max), midpoint)
	default:
		fmt.Fprintf(&b, "preset:%s:%d", strings.ToLower(p.Preset), midpoint)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

func rgbHex(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
