package clip

import "testing"

func TestSegmentTrivialAccept(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	q0, q1, ok := Segment(Point{1, 1}, Point{9, 9}, r)
	if !ok {
		t.Fatal("expected accept")
	}
	if q0 != (Point{1, 1}) || q1 != (Point{9, 9}) {
		t.Errorf("got (%v,%v), want unchanged endpoints", q0, q1)
	}
}

func TestSegmentTrivialReject(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	_, _, ok := Segment(Point{20, 20}, Point{30, 30}, r)
	if ok {
		t.Fatal("expected reject: both endpoints in same outside region")
	}
}

func TestSegmentPartialClip(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	q0, q1, ok := Segment(Point{-5, 5}, Point{5, 5}, r)
	if !ok {
		t.Fatal("expected accept")
	}
	if q0.X != 0 || q0.Y != 5 {
		t.Errorf("clipped start = %v, want (0,5)", q0)
	}
	if q1 != (Point{5, 5}) {
		t.Errorf("end should be unchanged, got %v", q1)
	}
}

func TestSegmentDiagonalThroughCorner(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	q0, q1, ok := Segment(Point{-5, -5}, Point{15, 15}, r)
	if !ok {
		t.Fatal("expected accept")
	}
	if q0 != (Point{0, 0}) {
		t.Errorf("clipped start = %v, want (0,0)", q0)
	}
	if q1 != (Point{10, 10}) {
		t.Errorf("clipped end = %v, want (10,10)", q1)
	}
}

// TestBoundarySnapping checks that intersections within Epsilon of the
// rectangle edge snap exactly onto it, not land a few ULPs off.
func TestBoundarySnapping(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 512, Y1: 512}
	// A nearly-horizontal line whose intersection with x=512 would, without
	// snapping, land at 512±tiny due to floating point division.
	q0, q1, ok := Segment(Point{500, 100}, Point{520, 100.0000000001}, r)
	if !ok {
		t.Fatal("expected accept")
	}
	if q1.X != r.X1 {
		t.Errorf("clipped X = %v, want exactly %v", q1.X, r.X1)
	}
	_ = q0
}

// TestSeamAgreement checks clip-level seam agreement: a segment
// straddling the boundary between two adjacent tiles must clip to the
// exact shared edge value in both tiles' local coordinate frames.
func TestSeamAgreement(t *testing.T) {
	const T = 512
	leftRect := Rect{X0: 0, Y0: 0, X1: T, Y1: T}
	rightRect := Rect{X0: 0, Y0: 0, X1: T, Y1: T} // right tile's own local frame; the segment is shifted by -T below

	p0 := Point{X: T - 50, Y: 100}
	p1 := Point{X: T + 50, Y: 100}

	_, q1, ok := Segment(p0, p1, leftRect)
	if !ok {
		t.Fatal("left clip rejected")
	}
	if q1.X != T {
		t.Fatalf("left tile boundary X = %v, want %v", q1.X, T)
	}

	rp0 := Point{X: p0.X - T, Y: p0.Y}
	rp1 := Point{X: p1.X - T, Y: p1.Y}
	q2, _, ok := Segment(rp0, rp1, rightRect)
	if !ok {
		t.Fatal("right clip rejected")
	}
	if q2.X != 0 {
		t.Fatalf("right tile boundary X = %v, want 0", q2.X)
	}
}
