// Package render implements the tile renderer: the orchestration that
// turns a tile address, palette, and activity filter into encoded PNG
// bytes by driving every other core component in sequence.
package render

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/geoheat/tilecore/internal/activity"
	"github.com/geoheat/tilecore/internal/coord"
	"github.com/geoheat/tilecore/internal/encode"
	"github.com/geoheat/tilecore/internal/gradient"
	"github.com/geoheat/tilecore/internal/polyline"
	"github.com/geoheat/tilecore/internal/raster"
)

// ErrorKind classifies a render failure so the HTTP boundary can map it to
// a status code without inspecting error strings.
type ErrorKind int

const (
	// KindInvalidTileAddress: z/x/y fails coord.ValidTile.
	KindInvalidTileAddress ErrorKind = iota
	// KindInvalidPaletteArgs: the palette does not resolve to a gradient.
	KindInvalidPaletteArgs
	// KindProviderUnavailable: the activity.Provider query failed.
	KindProviderUnavailable
	// KindRenderTimeout: ctx's deadline was exceeded mid-render.
	KindRenderTimeout
	// KindEncodeFailure: PNG encoding failed.
	KindEncodeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTileAddress:
		return "invalid_tile_address"
	case KindInvalidPaletteArgs:
		return "invalid_palette_args"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindRenderTimeout:
		return "render_timeout"
	case KindEncodeFailure:
		return "encode_failure"
	default:
		return "unknown"
	}
}

// Error is the renderer's typed failure, carrying enough structure for
// api.Server to pick an HTTP status without string matching.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// PrefilterInflationFraction expands a tile's geographic bounds before
// querying the activity provider, so polylines whose vertices lie outside
// the tile but whose segments still cross into it are not missed.
const PrefilterInflationFraction = 0.1

// Request describes one tile render, with its parameters already
// normalized.
type Request struct {
	Z, X, Y int
	Palette gradient.Palette
	Filter  activity.Filter
}

// Renderer ties the Activity Provider port to the geometry/raster/color
// pipeline and produces encoded tile bytes.
type Renderer struct {
	Provider activity.Provider
	Encoder  encode.Encoder
	Verbose  bool
}

// New builds a Renderer backed by provider, using the PNG encoder.
func New(provider activity.Provider) *Renderer {
	return &Renderer{Provider: provider, Encoder: encode.New()}
}

// Render produces the PNG bytes for req, or a typed *Error.
//
// Data flow: validate tile address -> inflate bounds and query the
// provider -> decode each activity's polyline -> project into
// tile-local pixels -> rasterize with the adjacency rule -> colorize
// via the gradient -> encode PNG.
//
// A malformed polyline on one activity is skipped (and logged when
// Verbose is set); it never fails the whole tile.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	if !coord.ValidTile(req.Z, req.X, req.Y) {
		return nil, fail(KindInvalidTileAddress, fmt.Errorf("z=%d x=%d y=%d is not a valid tile address", req.Z, req.X, req.Y))
	}

	g, midpoint, err := req.Palette.Resolve()
	if err != nil {
		return nil, fail(KindInvalidPaletteArgs, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(KindRenderTimeout, err)
	}

	minLon, minLat, maxLon, maxLat := coord.TileBounds(req.Z, req.X, req.Y)
	qMinLon, qMinLat, qMaxLon, qMaxLat := coord.InflateGeoBounds(minLon, minLat, maxLon, maxLat, PrefilterInflationFraction)

	activities, err := r.Provider.Query(req.Filter, activity.BBox{
		MinLon: qMinLon, MinLat: qMinLat, MaxLon: qMaxLon, MaxLat: qMaxLat,
	})
	if err != nil {
		return nil, fail(KindProviderUnavailable, err)
	}

	grid := raster.GetGrid(coord.TileSize)
	defer raster.PutGrid(grid)
	x0, y0 := coord.TileOrigin(req.X, req.Y, coord.TileSize)

	for _, a := range activities {
		select {
		case <-ctx.Done():
			return nil, fail(KindRenderTimeout, ctx.Err())
		default:
		}

		pts, err := polyline.Decode(a.PolylineString, polyline.DefaultPrecision)
		if err != nil {
			if r.Verbose {
				log.Printf("render: skipping activity %s: %v", a.ID, err)
			}
			continue
		}
		if len(pts) < 2 {
			continue
		}

		// Points stay in continuous tile-local pixel space here: rounding
		// to an integer pixel happens once, inside Rasterize, after
		// clipping — rounding before clipping would corrupt the sub-pixel
		// geometry the clip step depends on.
		projected := make([]raster.Point, len(pts))
		for i, p := range pts {
			px, py := coord.LonLatToWorldPixel(p.Lon, p.Lat, req.Z, coord.TileSize)
			projected[i] = raster.Point{U: px - x0, V: py - y0, Index: p.Index}
		}
		raster.Rasterize(grid, projected)
	}

	img := colorize(grid, g, midpoint)

	data, err := r.Encoder.Encode(img)
	if err != nil {
		return nil, fail(KindEncodeFailure, err)
	}
	return data, nil
}

// colorize maps every cell of an overlap grid through a gradient into an
// RGBA image.
func colorize(grid *raster.Grid, g *gradient.Gradient, midpoint int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Size, grid.Size))
	for v := 0; v < grid.Size; v++ {
		for u := 0; u < grid.Size; u++ {
			img.SetRGBA(u, v, g.At(grid.At(u, v), midpoint))
		}
	}
	return img
}
