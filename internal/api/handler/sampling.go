package handler

import (
	"fmt"

	"github.com/breatheroute/phri/internal/airquality"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/routegraph"
)

// RouteSampler fills in concentration samples for routes submitted without
// them by interpolating a station snapshot along the route.
type RouteSampler struct {
	interp   *airquality.Interpolator
	interval float64
}

// NewRouteSampler creates a RouteSampler. A non-positive interval uses
// airquality.DefaultSampleInterval.
func NewRouteSampler(interp *airquality.Interpolator, intervalMeters float64) *RouteSampler {
	if interp == nil {
		interp = airquality.NewInterpolator(airquality.DefaultInterpolationConfig())
	}
	if intervalMeters <= 0 {
		intervalMeters = airquality.DefaultSampleInterval
	}
	return &RouteSampler{interp: interp, interval: intervalMeters}
}

// Fill samples every candidate that has no samples, in place. It returns the
// positions of the sampled candidates, or field errors for routes that could
// not be sampled.
func (s *RouteSampler) Fill(cands []routegraph.Candidate, snap *airquality.Snapshot, intervalMeters float64) ([]int, []models.FieldError) {
	if intervalMeters <= 0 {
		intervalMeters = s.interval
	}

	var sampled []int
	var errs []models.FieldError
	for i := range cands {
		if !models.NeedsSamples(cands[i].RouteCandidate) {
			continue
		}
		if len(cands[i].Coordinates) == 0 {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("routes[%d].coordinates", i),
				Message: "coordinates or polyline required to interpolate samples",
				Code:    models.CodeRequired,
			})
			continue
		}
		rs, err := s.interp.SampleRoute(cands[i].Coordinates, intervalMeters, snap)
		if err != nil {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("routes[%d].samples", i),
				Message: err.Error(),
				Code:    models.CodeUnavailable,
			})
			continue
		}
		cands[i].Samples = rs.Samples
		cands[i].SampleLocations = rs.Locations
		sampled = append(sampled, i)
	}
	return sampled, errs
}
