package airquality

import (
	"github.com/breatheroute/phri/pkg/geo"
)

// DefaultSampleInterval is the spacing of route samples in meters.
const DefaultSampleInterval = 250.0

// RouteSamples are PM2.5 estimates at evenly spaced points along a route,
// aligned one-to-one with Locations.
type RouteSamples struct {
	Locations  []geo.Coordinate `json:"locations"`
	Samples    []float64        `json:"samples"`
	Confidence []Confidence     `json:"confidence"`

	// Estimated counts points with a direct estimate; the rest reuse a neighbour.
	Estimated int `json:"estimated"`
}

// SampleRoute resamples coords every intervalMeters and interpolates PM2.5 at
// each point. Points with no station in range reuse the last estimate, or the
// first one when no earlier estimate exists.
func (i *Interpolator) SampleRoute(coords []geo.Coordinate, intervalMeters float64, snap *Snapshot) (RouteSamples, error) {
	if intervalMeters <= 0 {
		intervalMeters = DefaultSampleInterval
	}
	stations := snap.Usable()
	if len(stations) == 0 {
		return RouteSamples{}, ErrNoStationsInRange
	}

	points := geo.Resample(coords, intervalMeters)
	out := RouteSamples{
		Locations:  points,
		Samples:    make([]float64, len(points)),
		Confidence: make([]Confidence, len(points)),
	}

	firstKnown := -1
	for idx, p := range points {
		est, err := i.Interpolate(p, stations)
		if err != nil {
			out.Confidence[idx] = ConfidenceLow
			if idx > 0 && firstKnown >= 0 {
				out.Samples[idx] = out.Samples[idx-1]
			}
			continue
		}
		out.Samples[idx] = est.PM25
		out.Confidence[idx] = est.Confidence
		out.Estimated++
		if firstKnown < 0 {
			firstKnown = idx
		}
	}

	if firstKnown < 0 {
		return RouteSamples{}, ErrNoStationsInRange
	}
	for idx := 0; idx < firstKnown; idx++ {
		out.Samples[idx] = out.Samples[firstKnown]
	}
	return out, nil
}
