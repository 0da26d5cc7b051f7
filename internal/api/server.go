// Package api exposes the tile renderer and cache over HTTP: GET
// /tiles/{z}/{x}/{y}.png and POST /tiles/cache/clear.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/geoheat/tilecore/internal/activity"
	"github.com/geoheat/tilecore/internal/gradient"
	"github.com/geoheat/tilecore/internal/render"
	"github.com/geoheat/tilecore/internal/tilecache"
)

// RenderTimeout bounds a single tile render.
const RenderTimeout = 10 * time.Second

// Server wires the renderer and cache behind net/http handlers, in the
// style of a small self-contained binary rather than a framework-backed
// application: routing uses the standard library's method+wildcard mux
// (Go 1.22+), not a third-party router.
type Server struct {
	Renderer *render.Renderer
	Cache    *tilecache.Cache
	Verbose  bool
}

// New builds an http.Handler serving the tile and cache-management routes.
func New(renderer *render.Renderer, cache *tilecache.Cache, verbose bool) http.Handler {
	s := &Server{Renderer: renderer, Cache: cache, Verbose: verbose}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tiles/{z}/{x}/{y}.png", s.handleTile)
	mux.HandleFunc("POST /tiles/cache/clear", s.handleCacheClear)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.withRequestID(mux)
}

// withRequestID mints a UUID for every request and, when Verbose is set,
// logs it with the request method and path.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		if s.Verbose {
			log.Printf("[%s] %s %s", id, req.Method, req.URL.Path)
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	z, err1 := strconv.Atoi(r.PathValue("z"))
	x, err2 := strconv.Atoi(r.PathValue("x"))
	y, err3 := strconv.Atoi(r.PathValue("y"))
	if err1 != nil || err2 != nil || err3 != nil {
		http.Error(w, "z/x/y must be integers", http.StatusBadRequest)
		return
	}

	palette, filter, err := parseParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RenderTimeout)
	defer cancel()

	key := tilecache.Key{Z: z, X: x, Y: y, PaletteHash: palette.CacheKey(), FilterHash: filterHash(filter)}

	data, status, err := s.Cache.GetOrRender(key, func() ([]byte, error) {
		return s.Renderer.Render(ctx, render.Request{Z: z, X: x, Y: y, Palette: palette, Filter: filter})
	})
	if err != nil {
		writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Tile-Cache", status)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	n := s.Cache.Clear()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"cleared": n})
}

// writeRenderError maps a *render.Error's Kind to an HTTP status.
func writeRenderError(w http.ResponseWriter, err error) {
	var rerr *render.Error
	if !errors.As(err, &rerr) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch rerr.Kind {
	case render.KindInvalidTileAddress:
		http.Error(w, rerr.Error(), http.StatusNotFound)
	case render.KindInvalidPaletteArgs:
		http.Error(w, rerr.Error(), http.StatusBadRequest)
	case render.KindProviderUnavailable:
		http.Error(w, rerr.Error(), http.StatusServiceUnavailable)
	case render.KindRenderTimeout:
		http.Error(w, rerr.Error(), http.StatusGatewayTimeout)
	case render.KindEncodeFailure:
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
	}
}

// filterHash is the filter-hash component of a cache key. Unlike
// gradient.Palette.CacheKey, the filter fields are few enough that a plain
// delimited string is unambiguous without hashing.
func filterHash(f activity.Filter) string {
	return f.ActivityType + "|" + f.StartDate.Format(time.RFC3339) + "|" + f.EndDate.Format(time.RFC3339)
}

// parseParams normalizes query parameters into a Palette and a Filter. A
// midpoint override is folded directly into the returned Palette (not
// threaded separately) so that Palette.CacheKey reflects it: two requests
// differing only in midpoint must never collide on the same cache entry.
func parseParams(q map[string][]string) (gradient.Palette, activity.Filter, error) {
	get := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	palette, err := parsePalette(get)
	if err != nil {
		return gradient.Palette{}, activity.Filter{}, err
	}

	filter, err := parseFilter(get)
	if err != nil {
		return gradient.Palette{}, activity.Filter{}, err
	}

	if s := get("midpoint"); s != "" {
		midpoint, err := strconv.Atoi(s)
		if err != nil {
			return gradient.Palette{}, activity.Filter{}, errors.New("midpoint must be an integer")
		}
		palette.Midpoint = midpoint
	}

	return palette, filter, nil
}

func parsePalette(get func(string) string) (gradient.Palette, error) {
	if preset := get("gradient"); preset != "" {
		return gradient.Palette{Kind: gradient.KindPreset, Preset: preset}, nil
	}

	minColor, minOK := parseHexColor(get("min_color"))
	midColor, midOK := parseHexColor(get("mid_color"))
	maxColor, maxOK := parseHexColor(get("max_color"))
	if minOK || midOK || maxOK {
		if !minOK || !midOK || !maxOK {
			return gradient.Palette{}, errors.New("min_color, mid_color, and max_color must all be supplied together")
		}
		return gradient.Palette{Kind: gradient.KindCustom, Min: minColor, Mid: midColor, Max: maxColor}, nil
	}

	return gradient.Palette{Kind: gradient.KindPreset, Preset: gradient.PresetOrange}, nil
}

func parseHexColor(s string) (color.RGBA, bool) {
	if s == "" {
		return color.RGBA{}, false
	}
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, true
}

func parseFilter(get func(string) string) (activity.Filter, error) {
	var f activity.Filter
	f.ActivityType = get("activity_type")

	if s := get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, errors.New("start_date must be YYYY-MM-DD")
		}
		f.StartDate = t
	}
	if s := get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, errors.New("end_date must be YYYY-MM-DD")
		}
		f.EndDate = t
	}
	return f, nil
}
