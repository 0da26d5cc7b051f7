// Package clip implements Cohen-Sutherland line-segment clipping against an
// axis-aligned rectangle, with boundary snapping so that segments crossing
// a tile edge agree on the exact boundary coordinate regardless of which
// side of the edge the floating-point intersection math landed on.
package clip

// Snap epsilon in world pixels: after computing an intersection,
// coordinates within this distance of the rectangle edge are snapped to the
// edge exactly. This eliminates one-pixel mismatches at shared tile edges
// caused by floating-point rounding of the intersection formula.
const Epsilon = 1e-9

// Outcode bits for Cohen-Sutherland region classification.
const (
	inside = 0
	left   = 1 << 0
	right  = 1 << 1
	bottom = 1 << 2
	top    = 1 << 3
)

// Point is a 2D floating-point coordinate in world (or tile-local) pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned clipping rectangle [X0,Y0]×[X1,Y1].
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) outcode(p Point) int {
	code := inside
	switch {
	case p.X < r.X0:
		code |= left
	case p.X > r.X1:
		code |= right
	}
	switch {
	case p.Y < r.Y0:
		code |= bottom
	case p.Y > r.Y1:
		code |= top
	}
	return code
}

// Segment clips the segment (p0,p1) against rectangle r using the
// Cohen-Sutherland algorithm. It returns the clipped endpoints
// and ok=true if any part of the segment lies within r (inclusive of the
// boundary); ok=false if the entire segment lies outside r.
func Segment(p0, p1 Point, r Rect) (q0, q1 Point, ok bool) {
	code0 := r.outcode(p0)
	code1 := r.outcode(p1)

	for {
		if code0|code1 == 0 {
			// Trivially accept: both endpoints inside.
			return snap(p0, r), snap(p1, r), true
		}
		if code0&code1 != 0 {
			// Trivially reject: both endpoints share an outside region.
			return Point{}, Point{}, false
		}

		// At least one endpoint is outside; pick it and clip against the
		// violated edge.
		var x, y float64
		outCode := code0
		if outCode == 0 {
			outCode = code1
		}

		switch {
		case outCode&top != 0:
			x = p0.X + (p1.X-p0.X)*(r.Y1-p0.Y)/(p1.Y-p0.Y)
			y = r.Y1
		case outCode&bottom != 0:
			x = p0.X + (p1.X-p0.X)*(r.Y0-p0.Y)/(p1.Y-p0.Y)
			y = r.Y0
		case outCode&right != 0:
			y = p0.Y + (p1.Y-p0.Y)*(r.X1-p0.X)/(p1.X-p0.X)
			x = r.X1
		case outCode&left != 0:
			y = p0.Y + (p1.Y-p0.Y)*(r.X0-p0.X)/(p1.X-p0.X)
			x = r.X0
		}

		if outCode == code0 {
			p0 = Point{X: x, Y: y}
			code0 = r.outcode(p0)
		} else {
			p1 = Point{X: x, Y: y}
			code1 = r.outcode(p1)
		}
	}
}

// snap rounds a point's coordinates to the rectangle edge when within
// Epsilon of it.
func snap(p Point, r Rect) Point {
	p.X = snapCoord(p.X, r.X0, r.X1)
	p.Y = snapCoord(p.Y, r.Y0, r.Y1)
	return p
}

func snapCoord(v, lo, hi float64) float64 {
	if abs(v-lo) < Epsilon {
		return lo
	}
	if abs(v-hi) < Epsilon {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
