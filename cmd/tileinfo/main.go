// Command tileinfo prints tile geometry for a single z/x/y address: its
// WGS84 bounds, world-pixel origin, and ground resolution.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/geoheat/tilecore/internal/coord"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tileinfo <z>/<x>/<y>\n\n")
		fmt.Fprintf(os.Stderr, "Print the geometry of a single tile address.\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	z, x, y, err := parseAddress(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !coord.ValidTile(z, x, y) {
		fmt.Fprintf(os.Stderr, "Error: %d/%d/%d is not a valid tile address (0<=z<=%d, 0<=x,y<2^z)\n", z, x, y, coord.MaxZoom)
		os.Exit(1)
	}

	minLon, minLat, maxLon, maxLat := coord.TileBounds(z, x, y)
	x0, y0, x1, y1 := coord.TileWorldBounds(x, y, coord.TileSize)
	qMinLon, qMinLat, qMaxLon, qMaxLat := coord.InflateGeoBounds(minLon, minLat, maxLon, maxLat, 0.1)
	centerLat := (minLat + maxLat) / 2

	fmt.Printf("Tile: %d/%d/%d\n", z, x, y)
	fmt.Printf("Tile size: %d px\n", coord.TileSize)
	fmt.Printf("WGS84 bounds: lon=[%f, %f], lat=[%f, %f]\n", minLon, maxLon, minLat, maxLat)
	fmt.Printf("World-pixel bounds: x=[%f, %f], y=[%f, %f]\n", x0, x1, y0, y1)
	fmt.Printf("Prefilter query bounds (10%% inflated): lon=[%f, %f], lat=[%f, %f]\n", qMinLon, qMaxLon, qMinLat, qMaxLat)
	fmt.Printf("Ground resolution at tile center: %f m/px\n", coord.ResolutionAtLat(centerLat, z))
}

func parseAddress(s string) (z, x, y int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected z/x/y, got %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("parsing %q: %w", p, convErr)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
