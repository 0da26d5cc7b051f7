// Package tilecache implements a bounded, keyed, in-memory PNG tile
// cache. Eviction is single-policy insertion-order FIFO: a map plus an
// insertion-ordered slice, evicted from the front when the store exceeds
// its byte budget.
package tilecache

import (
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacityBytes is the default cache budget: 100 MiB.
const DefaultCapacityBytes = 100 * 1024 * 1024

// Key identifies one cache entry: a tile address plus stable digests of
// the fully-normalized palette and filter options.
type Key struct {
	Z, X, Y     int
	PaletteHash string
	FilterHash  string
}

type entry struct {
	key   Key
	value []byte
}

// Cache is a bounded, keyed, FIFO-evicting store of encoded tile bytes.
// All operations take a short critical section around the map and
// bookkeeping; Get returns a shared slice without copying, so callers must
// not mutate it.
type Cache struct {
	mu       sync.Mutex
	capacity int64
	total    int64
	entries  map[Key]*entry
	order    []*entry

	group singleflight.Group
}

// New creates a tile cache with the given byte capacity. A non-positive
// capacity falls back to DefaultCapacityBytes.
func New(capacityBytes int64) *Cache {
	if capacityBytes <= 0 {
		capacityBytes = DefaultCapacityBytes
	}
	return &Cache{
		capacity: capacityBytes,
		entries:  make(map[Key]*entry),
	}
}

// Get retrieves bytes from the cache. The bool reports whether key was
// present.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Put inserts value under key, evicting the oldest entries while the
// total exceeds capacity. Re-inserting an existing key replaces its value
// and moves it to the back of the eviction order.
func (c *Cache) Put(key Key, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		c.total -= int64(len(existing.value))
		c.removeFromOrder(existing)
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.order = append(c.order, e)
	c.total += int64(len(value))

	for c.total > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest.key)
		c.total -= int64(len(oldest.value))
	}
}

// removeFromOrder deletes e from the insertion-order slice. Must be
// called with mu held. O(n) in the number of entries, acceptable at the
// scale a single process's tile cache operates at.
func (c *Cache) removeFromOrder(e *entry) {
	for i, o := range c.order {
		if o == e {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Clear empties the cache and reports the number of entries removed.
// A Get for any key present before Clear returns not-found afterward.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[Key]*entry)
	c.order = nil
	c.total = 0
	return n
}

// Stats reports current cache occupancy.
type Stats struct {
	Entries       int
	TotalBytes    int64
	CapacityBytes int64
}

// Stats returns a snapshot of cache occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), TotalBytes: c.total, CapacityBytes: c.capacity}
}

// String renders Stats in human-readable byte units, for log lines.
func (s Stats) String() string {
	return humanize.Bytes(uint64(s.TotalBytes)) + " / " + humanize.Bytes(uint64(s.CapacityBytes)) +
		" (" + humanize.Comma(int64(s.Entries)) + " tiles)"
}

// GetOrRender returns the cached bytes for key if present (status "hit"),
// or calls render to produce them, inserts the result, and returns it
// (status "miss"). Concurrent GetOrRender calls for the same key that
// miss together are collapsed into a single render via singleflight;
// every caller still receives byte-equivalent output because the
// rasterizer is deterministic.
//
// render's error is never cached, so a failed render never poisons the
// cache for a subsequent, possibly successful, retry.
func (c *Cache) GetOrRender(key Key, render func() ([]byte, error)) (data []byte, status string, err error) {
	if v, ok := c.Get(key); ok {
		return v, "hit", nil
	}

	groupKey := keyString(key)
	v, err, _ := c.group.Do(groupKey, func() (interface{}, error) {
		// Re-check under singleflight in case a prior in-flight render for
		// this key just finished while we were scheduled.
		if cached, ok := c.Get(key); ok {
			return cached, nil
		}
		data, err := render()
		if err != nil {
			return nil, err
		}
		c.Put(key, data)
		return data, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.([]byte), "miss", nil
}

func keyString(k Key) string {
	return k.PaletteHash + "|" + k.FilterHash + "|" +
		strconv.Itoa(k.Z) + "/" + strconv.Itoa(k.X) + "/" + strconv.Itoa(k.Y)
}
