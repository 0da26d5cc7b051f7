package activity

import (
	"testing"
	"time"
)

func TestBBoxIntersects(t *testing.T) {
	a := BBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}
	b := BBox{MinLon: 5, MinLat: 5, MaxLon: 15, MaxLat: 15}
	c := BBox{MinLon: 20, MinLat: 20, MaxLon: 30, MaxLat: 30}

	if !a.Intersects(b) {
		t.Error("a and b should intersect")
	}
	if a.Intersects(c) {
		t.Error("a and c should not intersect")
	}
}

func TestFilterMatches(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	act := Activity{ActivityType: "run", StartDate: jan15}

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty filter matches all", Filter{}, true},
		{"matching type", Filter{ActivityType: "run"}, true},
		{"non-matching type", Filter{ActivityType: "ride"}, false},
		{"within date range", Filter{StartDate: jan1, EndDate: feb1}, true},
		{"before range", Filter{StartDate: feb1}, false},
		{"after range", Filter{EndDate: jan1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f.Matches(act); got != c.want {
				t.Errorf("Matches() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestMemoryProviderQuery(t *testing.T) {
	p := NewMemoryProvider([]Activity{
		{ID: "1", ActivityType: "run", BBox: BBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}},
		{ID: "2", ActivityType: "ride", BBox: BBox{MinLon: 50, MinLat: 50, MaxLon: 51, MaxLat: 51}},
	})

	results, err := p.Query(Filter{}, BBox{MinLon: -1, MinLat: -1, MaxLon: 2, MaxLat: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("got %+v, want only activity 1", results)
	}
}

func TestMemoryProviderAddConcurrentSafe(t *testing.T) {
	p := NewMemoryProvider(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			p.Add(Activity{ID: "x"})
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		_, _ = p.Query(Filter{}, BBox{MaxLon: 1, MaxLat: 1})
	}
	<-done
	if p.Len() != 100 {
		t.Errorf("Len() = %d, want 100", p.Len())
	}
}
