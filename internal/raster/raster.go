// Package raster implements the tile rasterization core: drawing the
// projected points of GPS polylines onto a saturating per-pixel overlap
// count grid, honoring the adjacency rule that forbids connecting
// non-consecutive GPS samples and the tile-edge clipping needed for
// seamless adjacent tiles.
package raster

import (
	"github.com/geoheat/tilecore/internal/clip"
)

// Point is a projected polyline sample: a fractional tile-local pixel
// position carrying the original polyline index of its source GPS
// sample.
type Point struct {
	U, V  float64
	Index int
}

// Grid is a T×T array of saturating u8 overlap counters.
type Grid struct {
	Size   int
	Counts []uint8
}

// NewGrid allocates a zeroed size×size overlap grid.
func NewGrid(size int) *Grid {
	return &Grid{Size: size, Counts: make([]uint8, size*size)}
}

// At returns the overlap count at (u,v). Out-of-range coordinates return 0.
func (g *Grid) At(u, v int) uint8 {
	if u < 0 || u >= g.Size || v < 0 || v >= g.Size {
		return 0
	}
	return g.Counts[v*g.Size+u]
}

// addSaturating increments grid[v,u] by one, saturating at 255.
func (g *Grid) addSaturating(u, v int) {
	if u < 0 || u >= g.Size || v < 0 || v >= g.Size {
		return
	}
	i := v*g.Size + u
	if g.Counts[i] < 255 {
		g.Counts[i]++
	}
}

// clipExpansion is a 1-pixel expansion of the clip rectangle, chosen so
// adjacent tiles agree on boundary pixels given the shared rounding
// policy applied after clipping (see roundPixel).
const clipExpansion = 1.0

// Rasterize draws the polyline described by pts (in input/original order)
// onto grid, which must already be sized to the tile. Segments are drawn
// only between points whose Index fields are exactly 1 apart (the
// adjacency rule): a gap means the source point was dropped by an
// upstream spatial prefilter, and the two surviving samples must never
// be joined by a spurious line.
//
// Rasterize never returns an error: malformed per-polyline input is the
// caller's concern (polyline decode failures are handled before this
// point); this function only draws what it is given.
func Rasterize(grid *Grid, pts []Point) {
	if len(pts) < 2 {
		return
	}

	size := float64(grid.Size)
	rect := clip.Rect{
		X0: -clipExpansion,
		Y0: -clipExpansion,
		X1: size + clipExpansion,
		Y1: size + clipExpansion,
	}

	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		if b.Index-a.Index != 1 {
			// Adjacency rule: never connect non-consecutive GPS samples.
			continue
		}

		q0, q1, ok := clip.Segment(clip.Point{X: a.U, Y: a.V}, clip.Point{X: b.U, Y: b.V}, rect)
		if !ok {
			continue
		}

		u0, v0 := roundPixel(q0.X), roundPixel(q0.Y)
		u1, v1 := roundPixel(q1.X), roundPixel(q1.Y)

		if degenerate(u0, v0, u1, v1, grid.Size) {
			continue
		}

		bresenham(grid, u0, v0, u1, v1)
	}
}

// degenerate reports whether both endpoints, after clipping and rounding,
// fall fully outside the drawable [0,size-1]^2 range.
func degenerate(u0, v0, u1, v1, size int) bool {
	inRange := func(u, v int) bool {
		return u >= 0 && u < size && v >= 0 && v < size
	}
	return !inRange(u0, v0) && !inRange(u1, v1)
}

// roundPixel rounds a clipped float pixel coordinate half away from
// zero, matching coord.RoundHalfAwayFromZero exactly so tile-geometry
// projection and segment rasterization never disagree about a boundary
// pixel.
func roundPixel(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// bresenham draws an integer Bresenham line from (u0,v0) to (u1,v1) onto
// grid, saturating-adding 1 to every visited pixel. Endpoints may lie
// one pixel outside the grid (from the 1px clip
// expansion); addSaturating silently ignores out-of-range writes.
func bresenham(grid *Grid, u0, v0, u1, v1 int) {
	dx := abs(u1 - u0)
	dy := -abs(v1 - v0)
	sx := 1
	if u0 >= u1 {
		sx = -1
	}
	sy := 1
	if v0 >= v1 {
		sy = -1
	}
	err := dx + dy

	u, v := u0, v0
	for {
		grid.addSaturating(u, v)
		if u == u1 && v == v1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			u += sx
		}
		if e2 <= dx {
			err += dx
			v += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
