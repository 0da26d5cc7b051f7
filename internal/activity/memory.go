package activity

import "sync"

// MemoryProvider is a concurrency-safe, read-only Provider backed by an
// in-memory slice. It is the default Provider when no external activity
// source (database, upstream API) is configured, and is what the
// renderer's tests exercise directly.
//
// It does not implement a spatial index (disk-resident spatial indexes are
// an explicit non-goal, and an in-memory one is unneeded at fixture scale);
// Query performs a linear bbox-intersection scan, which is sufficient for
// a test fixture and for small deployments.
type MemoryProvider struct {
	mu         sync.RWMutex
	activities []Activity
}

// NewMemoryProvider builds a provider pre-seeded with the given activities.
func NewMemoryProvider(activities []Activity) *MemoryProvider {
	return &MemoryProvider{activities: append([]Activity(nil), activities...)}
}

// Add appends activities to the provider. Safe for concurrent use with Query.
func (p *MemoryProvider) Add(activities ...Activity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activities = append(p.activities, activities...)
}

// Query implements Provider.
func (p *MemoryProvider) Query(filter Filter, bbox BBox) ([]Activity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Activity
	for _, a := range p.activities {
		if !a.BBox.Intersects(bbox) {
			continue
		}
		if !filter.Matches(a) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Len reports how many activities the provider currently holds.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.activities)
}
