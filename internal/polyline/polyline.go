// Package polyline decodes Google's variable-length encoded polyline format
// into ordered sequences of geodetic points.
package polyline

import (
	"fmt"
	"strings"
)

// DefaultPrecision is the number of decimal digits of precision used when
// the encoding does not specify one explicitly (10^5).
const DefaultPrecision = 5

// Point is a decoded geodetic sample carrying the original index it held in
// the source polyline. Index order is what the rasterizer's adjacency rule
// checks against; it is never reordered after decode.
type Point struct {
	Lon, Lat float64
	Index    int
}

// Error reports a malformed polyline string: the stream ended mid-coordinate
// or a continuation byte was never terminated.
type Error struct {
	Reason string
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("malformed polyline at byte %d: %s", e.Offset, e.Reason)
}

// Decode decodes s into an ordered sequence of (lon, lat) points using the
// given precision (digits after the decimal point; pass DefaultPrecision for
// the common 10^5 encoding). Longitude is returned first in each Point to
// match the downstream tile-geometry convention. Empty input yields an empty,
// non-error result.
func Decode(s string, precision int) ([]Point, error) {
	if s == "" {
		return nil, nil
	}

	factor := pow10(precision)

	var (
		points []Point
		index  int
		lat    int64
		lon    int64
		i      int
	)

	for i < len(s) {
		dlat, n, err := decodeValue(s, i)
		if err != nil {
			return nil, err
		}
		i = n

		dlon, n, err := decodeValue(s, i)
		if err != nil {
			return nil, err
		}
		i = n

		lat += dlat
		lon += dlon

		points = append(points, Point{
			Lon:   float64(lon) / factor,
			Lat:   float64(lat) / factor,
			Index: index,
		})
		index++
	}

	return points, nil
}

// decodeValue decodes one zigzag-varint-encoded delta starting at byte
// offset i, returning the delta and the offset of the next unread byte.
func decodeValue(s string, i int) (int64, int, error) {
	start := i
	var result int64
	var shift uint

	for {
		if i >= len(s) {
			return 0, 0, &Error{Reason: "unterminated coordinate (stream ended mid-value)", Offset: start}
		}
		b := s[i]
		if b < 63 {
			return 0, 0, &Error{Reason: fmt.Sprintf("byte %d below minimum ASCII offset 63", b), Offset: i}
		}
		b -= 63
		i++

		result |= int64(b&0x1f) << shift
		if b&0x20 == 0 {
			break
		}
		shift += 5
		if shift > 64 {
			return 0, 0, &Error{Reason: "continuation sequence never terminated", Offset: start}
		}
	}

	// ZigZag decode.
	var delta int64
	if result&1 != 0 {
		delta = ^(result >> 1)
	} else {
		delta = result >> 1
	}
	return delta, i, nil
}

func pow10(n int) float64 {
	f := 1.0
	for i := 0; i < n; i++ {
		f *= 10
	}
	return f
}

// Encode re-encodes points back into Google's polyline format at the given
// precision. It is the inverse of Decode and is used to verify the decode
// round-trip property; it does not consult or emit Index.
func Encode(points []Point, precision int) string {
	if len(points) == 0 {
		return ""
	}
	factor := pow10(precision)

	var b strings.Builder
	var prevLat, prevLon int64

	for _, p := range points {
		lat := roundToInt64(p.Lat * factor)
		lon := roundToInt64(p.Lon * factor)

		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}
	return b.String()
}

func encodeValue(b *strings.Builder, v int64) {
	shifted := v << 1
	if v < 0 {
		shifted = ^shifted
	}
	for shifted >= 0x20 {
		b.WriteByte(byte((shifted&0x1f)|0x20) + 63)
		shifted >>= 5
	}
	b.WriteByte(byte(shifted) + 63)
}

func roundToInt64(f float64) int64 {
	if f >= 0 {
		return int64(f + 0.5)
	}
	return int64(f - 0.5)
}
