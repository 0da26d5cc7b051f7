// Command tilewarm primes a tileserver's cache for a bounding box by
// requesting every tile in Hilbert-curve order, so consecutive requests
// stay spatially clustered and hit warm activity-provider query regions
// instead of bouncing across the map.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/geoheat/tilecore/internal/coord"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		baseURL     string
		bboxStr     string
		zoom        int
		concurrency int
		gradient    string
		showVersion bool
		verbose     bool
	)

	flag.StringVar(&baseURL, "server", "http://localhost:8080", "Tileserver base URL")
	flag.StringVar(&bboxStr, "bbox", "", "WGS84 bounding box as minLon,minLat,maxLon,maxLat (required)")
	flag.IntVar(&zoom, "zoom", 10, "Zoom level to warm")
	flag.IntVar(&concurrency, "concurrency", 8, "Number of parallel warming requests")
	flag.StringVar(&gradient, "gradient", "", "Gradient preset to request (default: server default)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-tile logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tilewarm -bbox <minLon,minLat,maxLon,maxLat> -zoom <z> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prime a tileserver's cache for a bounding box in Hilbert-curve order.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tilewarm %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if bboxStr == "" {
		flag.Usage()
		os.Exit(1)
	}

	minLon, minLat, maxLon, maxLat, err := parseBBox(bboxStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid bbox: %v\n", err)
		os.Exit(1)
	}

	tiles := coord.TilesInBounds(zoom, minLon, minLat, maxLon, maxLat)
	if len(tiles) == 0 {
		fmt.Fprintln(os.Stderr, "No tiles intersect the given bounding box at this zoom")
		os.Exit(1)
	}
	coord.SortTilesByHilbert(tiles)

	if verbose {
		fmt.Printf("Warming %s tiles at zoom %d, %d parallel requests\n", humanize.Comma(int64(len(tiles))), zoom, concurrency)
	}

	bar := newProgressBar("warm", int64(len(tiles)))
	defer bar.Finish()

	var bytesWarmed int64
	var failed int64

	jobs := make(chan [3]int)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 30 * time.Second}
			for tile := range jobs {
				n, err := warmOne(client, baseURL, tile, gradient)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if verbose {
						fmt.Fprintf(os.Stderr, "\nfailed %d/%d/%d: %v\n", tile[0], tile[1], tile[2], err)
					}
				} else {
					atomic.AddInt64(&bytesWarmed, int64(n))
				}
				bar.Increment()
			}
		}()
	}

	for _, t := range tiles {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	bar.Finish()
	fmt.Printf("Warmed %s, %s transferred, %d failed\n",
		humanize.Comma(int64(len(tiles))-atomic.LoadInt64(&failed)), humanize.Bytes(uint64(bytesWarmed)), failed)
}

func warmOne(client *http.Client, baseURL string, tile [3]int, gradientName string) (int, error) {
	u := fmt.Sprintf("%s/tiles/%d/%d/%d.png", strings.TrimSuffix(baseURL, "/"), tile[0], tile[1], tile[2])
	if gradientName != "" {
		u += "?gradient=" + url.QueryEscape(gradientName)
	}

	resp, err := client.Get(u)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return int(n), err
	}
	if resp.StatusCode != http.StatusOK {
		return int(n), fmt.Errorf("status %d", resp.StatusCode)
	}
	return int(n), nil
}

func parseBBox(s string) (minLon, minLat, maxLon, maxLat float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%f", &vals[i]); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("parsing %q: %w", p, err)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
