package coord

import "sort"

// xyToHilbert converts (x, y) to a Hilbert curve index for an n x n grid.
// n must be a power of two.
func xyToHilbert(x, y, n uint64) uint64 {
	var d uint64
	s := n / 2
	for s > 0 {
		var rx, ry uint64
		if (x & s) > 0 {
			rx = 1
		}
		if (y & s) > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		// Rotate quadrant.
		if ry == 0 {
			if rx == 1 {
				x = s*2 - 1 - x
				y = s*2 - 1 - y
			}
			x, y = y, x
		}
		s /= 2
	}
	return d
}

// SortTilesByHilbert sorts tile coordinates [z, x, y] in place by their
// Hilbert curve index within the zoom level. This preserves 2D spatial
// locality: tiles that are close on the Hilbert curve are close in the
// tile grid, which keeps a cache warmer's activity-provider queries (and
// the resulting spatial prefilter hits) clustered instead of jumping
// across the map between consecutive renders.
//
// All tiles must be at the same zoom level.
func SortTilesByHilbert(tiles [][3]int) {
	if len(tiles) <= 1 {
		return
	}
	n := uint64(1) << uint(tiles[0][0])

	// Precompute Hilbert indices so each value is computed once (O(n))
	// rather than on every comparison (O(n log n) times).
	// Each index travels with its tile so that swaps during sorting keep
	// the two paired.
	type keyed struct {
		index uint64
		tile  [3]int
	}
	ks := make([]keyed, len(tiles))
	for i, t := range tiles {
		ks[i] = keyed{index: xyToHilbert(uint64(t[1]), uint64(t[2]), n), tile: t}
	}

	sort.Slice(ks, func(i, j int) bool { return ks[i].index < ks[j].index })
	for i := range ks {
		tiles[i] = ks[i].tile
	}
}
