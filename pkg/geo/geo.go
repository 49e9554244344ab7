// Package geo provides the small amount of geodesy the risk models need:
// coordinates, great-circle distances, polyline coding and path resampling.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371000

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the coordinate lies within the valid lat/lon ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lon)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PathLength returns the length of the path through coords in meters.
func PathLength(coords []Coordinate) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += Distance(coords[i-1], coords[i])
	}
	return total
}

// Lerp returns the point a fraction t of the way from a to b.
// Linear in degrees, which is accurate enough at street scale.
func Lerp(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lon: a.Lon + t*(b.Lon-a.Lon),
	}
}

// Resample returns points spaced roughly intervalMeters apart along the path.
// The first and last input points are always included.
func Resample(coords []Coordinate, intervalMeters float64) []Coordinate {
	if len(coords) == 0 {
		return nil
	}
	if intervalMeters <= 0 || len(coords) == 1 {
		out := make([]Coordinate, len(coords))
		copy(out, coords)
		return out
	}

	out := []Coordinate{coords[0]}
	carried := 0.0 // distance walked since the last emitted point

	for i := 1; i < len(coords); i++ {
		from, to := coords[i-1], coords[i]
		segment := Distance(from, to)
		walked := 0.0

		for carried+(segment-walked) >= intervalMeters {
			walked += intervalMeters - carried
			out = append(out, Lerp(from, to, walked/segment))
			carried = 0
		}
		carried += segment - walked
	}

	if last := coords[len(coords)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}
