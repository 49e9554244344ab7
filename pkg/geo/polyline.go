package geo

import (
	"errors"
	"math"
)

// ErrMalformedPolyline is returned when an encoded polyline ends mid-value.
var ErrMalformedPolyline = errors.New("malformed polyline")

// polylinePrecision is the 1e5 scale used by Google and OpenRouteService.
const polylinePrecision = 1e5

// DecodePolyline decodes a Google encoded polyline (precision 5).
func DecodePolyline(encoded string) ([]Coordinate, error) {
	if encoded == "" {
		return nil, nil
	}

	var (
		coords   []Coordinate
		lat, lon int
		pos      int
	)
	for pos < len(encoded) {
		dLat, next, err := readVarint(encoded, pos)
		if err != nil {
			return nil, err
		}
		dLon, next, err := readVarint(encoded, next)
		if err != nil {
			return nil, err
		}
		pos = next
		lat += dLat
		lon += dLon
		coords = append(coords, Coordinate{
			Lat: float64(lat) / polylinePrecision,
			Lon: float64(lon) / polylinePrecision,
		})
	}
	return coords, nil
}

// EncodePolyline encodes coords as a Google polyline (precision 5).
func EncodePolyline(coords []Coordinate) string {
	buf := make([]byte, 0, len(coords)*6)
	var prevLat, prevLon int
	for _, c := range coords {
		lat := int(math.Round(c.Lat * polylinePrecision))
		lon := int(math.Round(c.Lon * polylinePrecision))
		buf = appendVarint(buf, lat-prevLat)
		buf = appendVarint(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

func readVarint(s string, pos int) (int, int, error) {
	var result, shift int
	for {
		if pos >= len(s) {
			return 0, pos, ErrMalformedPolyline
		}
		b := int(s[pos]) - 63
		pos++
		if b < 0 {
			return 0, pos, ErrMalformedPolyline
		}
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}

func appendVarint(buf []byte, v int) []byte {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		buf = append(buf, byte((u&0x1f)|0x20)+63)
		u >>= 5
	}
	return append(buf, byte(u)+63)
}
