package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/geoheat/tilecore/internal/activity"
	"github.com/geoheat/tilecore/internal/api"
	"github.com/geoheat/tilecore/internal/render"
	"github.com/geoheat/tilecore/internal/tilecache"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		addr         string
		cacheBytes   int64
		showVersion  bool
		verbose      bool
		readTimeout  time.Duration
		writeTimeout time.Duration
	)

	flag.StringVar(&addr, "addr", ":8080", "HTTP listen address")
	flag.Int64Var(&cacheBytes, "cache-bytes", tilecache.DefaultCapacityBytes, "Tile cache capacity in bytes")
	flag.BoolVar(&verbose, "verbose", false, "Verbose request logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.DurationVar(&readTimeout, "read-timeout", 5*time.Second, "HTTP server read timeout")
	flag.DurationVar(&writeTimeout, "write-timeout", 15*time.Second, "HTTP server write timeout")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tileserver [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Serve GPS-activity heatmap tiles over HTTP.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tileserver %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// The in-memory provider is a stand-in until a real backing store
	// (database, upstream service) is configured; it always returns
	// empty results, so every tile renders fully transparent until Add is
	// called by an embedding application.
	provider := activity.NewMemoryProvider(nil)

	renderer := render.New(provider)
	renderer.Verbose = verbose

	cache := tilecache.New(cacheBytes)
	handler := api.New(renderer, cache, verbose)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	log.Printf("tileserver listening on %s (cache capacity %s)", addr, cache.Stats())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("ListenAndServe: %v", err)
	}
}
