package raster

import "sync"

// gridPools maps tile size -> *sync.Pool of *Grid: in practice a server
// only ever renders one tile size, so the map stays tiny and the pool
// absorbs the per-request allocation of a T*T counter array.
var gridPools sync.Map

// GetGrid returns a zeroed size x size Grid from the pool, or allocates a
// new one if none is available.
func GetGrid(size int) *Grid {
	if p, ok := gridPools.Load(size); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			g := v.(*Grid)
			clear(g.Counts)
			return g
		}
	}
	return NewGrid(size)
}

// PutGrid returns g to the pool for reuse by a later render of the same
// tile size. Nil grids are silently ignored.
func PutGrid(g *Grid) {
	if g == nil {
		return
	}
	p, _ := gridPools.LoadOrStore(g.Size, &sync.Pool{})
	p.(*sync.Pool).Put(g)
}
