// Package activity defines the read-only Activity Provider port the tile
// renderer consumes, plus an in-memory fixture implementation used by
// tests and as the default when no external activity source is
// configured.
package activity

import "time"

// BBox is a WGS84 geographic bounding box, precomputed by the external
// subsystem that owns an activity. It must not cross the ±180° meridian:
// Intersects compares MinLon and MaxLon directly and does not handle a
// box whose MinLon is greater than its MaxLon.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Intersects reports whether b and other overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.MinLon <= other.MaxLon && b.MaxLon >= other.MinLon &&
		b.MinLat <= other.MaxLat && b.MaxLat >= other.MinLat
}

// Activity is the read-only record the provider yields.
type Activity struct {
	ID             string
	PolylineString string
	ActivityType   string
	StartDate      time.Time
	BBox           BBox
}

// Filter narrows a query to a subset of activities: activity type and an
// inclusive start/end date range. A zero value Filter matches everything.
type Filter struct {
	ActivityType string
	StartDate    time.Time // zero means unbounded
	EndDate      time.Time // zero means unbounded
}

// Matches reports whether a falls within f.
func (f Filter) Matches(a Activity) bool {
	if f.ActivityType != "" && a.ActivityType != f.ActivityType {
		return false
	}
	if !f.StartDate.IsZero() && a.StartDate.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && a.StartDate.After(f.EndDate) {
		return false
	}
	return true
}

// Provider is the minimal read-only query surface the renderer consumes
// from outside the core. Implementations must not mutate any
// returned data and may be called concurrently from multiple tile
// renders; they give no ordering guarantee over the returned activities.
type Provider interface {
	// Query returns every activity matching filter whose bounding box
	// intersects bbox. The returned slice is owned by the caller: the
	// renderer reads it once per render and does not retain it.
	Query(filter Filter, bbox BBox) ([]Activity, error)
}
