package api

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geoheat/tilecore/internal/activity"
	"github.com/geoheat/tilecore/internal/render"
	"github.com/geoheat/tilecore/internal/tilecache"
)

func newTestServer() http.Handler {
	provider := activity.NewMemoryProvider(nil)
	r := render.New(provider)
	cache := tilecache.New(1024 * 1024)
	return New(r, cache, false)
}

func TestHandleTileDefaultPaletteServesPNG(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/tiles/1/0/0.png", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if w.Header().Get("X-Tile-Cache") != "miss" {
		t.Errorf("X-Tile-Cache = %q, want miss on first request", w.Header().Get("X-Tile-Cache"))
	}
	if _, err := png.Decode(w.Body); err != nil {
		t.Errorf("response body is not valid PNG: %v", err)
	}
}

func TestHandleTileSecondRequestIsCacheHit(t *testing.T) {
	srv := newTestServer()

	req1 := httptest.NewRequest(http.MethodGet, "/tiles/2/1/1.png", nil)
	w1 := httptest.NewRecorder()
	srv.ServeHTTP(w1, req1)

	req2 := httptest.NewRequest(http.MethodGet, "/tiles/2/1/1.png", nil)
	w2 := httptest.NewRecorder()
	srv.ServeHTTP(w2, req2)

	if w2.Header().Get("X-Tile-Cache") != "hit" {
		t.Errorf("X-Tile-Cache on repeat request = %q, want hit", w2.Header().Get("X-Tile-Cache"))
	}
}

func TestHandleTileInvalidAddressIs404(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/tiles/99/0/0.png", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleTileBadPaletteIs400(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/tiles/1/0/0.png?gradient=not-a-real-preset", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleTileNonIntegerCoordIs400(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/tiles/abc/0/0.png", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleCacheClear(t *testing.T) {
	srv := newTestServer()

	tileReq := httptest.NewRequest(http.MethodGet, "/tiles/3/2/2.png", nil)
	srv.ServeHTTP(httptest.NewRecorder(), tileReq)

	req := httptest.NewRequest(http.MethodPost, "/tiles/cache/clear", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]int
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["cleared"] != 1 {
		t.Errorf("cleared = %d, want 1", resp["cleared"])
	}
}

func TestParseHexColor(t *testing.T) {
	c, ok := parseHexColor("#ff0080")
	if !ok {
		t.Fatal("expected valid hex color")
	}
	if c.R != 0xff || c.G != 0x00 || c.B != 0x80 || c.A != 255 {
		t.Errorf("parsed color = %+v, want R=ff G=00 B=80 A=255", c)
	}

	if _, ok := parseHexColor("bogus"); ok {
		t.Error("expected invalid hex color to fail")
	}
}

func TestParsePaletteRequiresAllThreeCustomColors(t *testing.T) {
	_, _, err := parseParams(map[string][]string{"min_color": {"#ff0000"}})
	if err == nil {
		t.Error("expected error when only min_color is supplied")
	}
}

func TestParseParamsFoldsMidpointIntoPalette(t *testing.T) {
	palette, _, err := parseParams(map[string][]string{"midpoint": {"25"}})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	if palette.Midpoint != 25 {
		t.Errorf("palette.Midpoint = %d, want 25", palette.Midpoint)
	}
}
