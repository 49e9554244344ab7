package models

import (
	"fmt"
	"strings"

	"github.com/breatheroute/phri/internal/airquality"
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/routegraph"
	"github.com/breatheroute/phri/pkg/geo"
)

// RouteInput is one route candidate as supplied by a client. Coordinates may
// be given directly or as an encoded polyline; samples may be omitted when an
// air quality snapshot accompanies the request.
type RouteInput struct {
	exposure.RouteCandidate

	Polyline string                      `json:"polyline,omitempty"`
	Segments []routegraph.SegmentContext `json:"segments,omitempty"`
}

// Candidate resolves the input into a graph candidate. position is the
// zero-based place of the route in the request and becomes the 1-based index
// when the client did not set one.
func (in RouteInput) Candidate(position int) (routegraph.Candidate, error) {
	c := routegraph.Candidate{RouteCandidate: in.RouteCandidate, Segments: in.Segments}
	if c.Index == 0 {
		c.Index = position + 1
	}
	if len(c.Coordinates) == 0 && in.Polyline != "" {
		coords, err := geo.DecodePolyline(in.Polyline)
		if err != nil {
			return routegraph.Candidate{}, err
		}
		c.Coordinates = coords
	}
	return c, nil
}

// NeedsSamples reports whether the route carries no concentration samples.
func NeedsSamples(c exposure.RouteCandidate) bool {
	return len(c.Samples) == 0
}

// RouteSet is the shared part of every multi-route request.
type RouteSet struct {
	Routes []RouteInput `json:"routes"`

	// AirQuality is a station snapshot used to sample routes without samples.
	AirQuality *airquality.Snapshot `json:"airQuality,omitempty"`

	// SampleIntervalMeters spaces interpolated samples (default: 250).
	SampleIntervalMeters float64 `json:"sampleIntervalMeters,omitempty"`
}

// Resolve decodes and validates every route. An empty set is not a
// validation error; the scoring layer reports it.
func (s RouteSet) Resolve() ([]routegraph.Candidate, []FieldError) {
	if len(s.Routes) > MaxRoutes {
		return nil, []FieldError{{
			Field:   "routes",
			Message: fmt.Sprintf("at most %d routes are accepted", MaxRoutes),
			Code:    CodeTooMany,
		}}
	}

	out := make([]routegraph.Candidate, 0, len(s.Routes))
	var errs []FieldError
	for i, in := range s.Routes {
		c, err := in.Candidate(i)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("routes[%d].polyline", i),
				Message: err.Error(),
				Code:    CodeInvalid,
			})
			continue
		}
		errs = append(errs, validateCoordinates(fmt.Sprintf("routes[%d].coordinates", i), c.Coordinates)...)
		errs = append(errs, validateCoordinates(fmt.Sprintf("routes[%d].sampleLocations", i), c.SampleLocations)...)
		if len(c.Samples) > MaxRoutePoints {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("routes[%d].samples", i),
				Message: fmt.Sprintf("at most %d samples are accepted", MaxRoutePoints),
				Code:    CodeTooMany,
			})
		}
		if NeedsSamples(c.RouteCandidate) && s.AirQuality == nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("routes[%d].samples", i),
				Message: "samples are required when no airQuality snapshot is supplied",
				Code:    CodeRequired,
			})
		}
		out = append(out, c)
	}
	return out, errs
}

// RouteCompareRequest is the body of POST /v1/exposure:compare-routes.
type RouteCompareRequest struct {
	RouteSet

	Profile  health.Profile       `json:"profile"`
	Activity health.ActivityLevel `json:"activityLevel,omitempty"`
	SpeedKmh float64              `json:"travelSpeedKmh,omitempty"`
}

// Validate checks the request and returns the resolved candidates.
func (r RouteCompareRequest) Validate() ([]routegraph.Candidate, []FieldError) {
	cands, errs := r.Resolve()
	return cands, append(errs, validateProfile("profile", r.Profile)...)
}

// RouteCompareResponse lists route risks ranked safest first.
type RouteCompareResponse struct {
	Routes      []exposure.RouteRisk `json:"routes"`
	SafestIndex int                  `json:"safestIndex"`
}

// GraphOptions describes the traveller for graph endpoints.
type GraphOptions struct {
	Profile  health.Profile       `json:"profile"`
	Activity health.ActivityLevel `json:"activityLevel,omitempty"`
	HasMask  bool                 `json:"hasMask"`
	Mask     health.MaskType      `json:"maskType,omitempty"`
}

// RouteGraphRequest is the body of POST /v1/routes:graph.
type RouteGraphRequest struct {
	GraphOptions

	Route                RouteInput           `json:"route"`
	AirQuality           *airquality.Snapshot `json:"airQuality,omitempty"`
	SampleIntervalMeters float64              `json:"sampleIntervalMeters,omitempty"`
}

// Validate checks the request and returns the resolved candidate.
func (r RouteGraphRequest) Validate() (routegraph.Candidate, []FieldError) {
	set := RouteSet{Routes: []RouteInput{r.Route}, AirQuality: r.AirQuality}
	cands, errs := set.Resolve()
	for i := range errs {
		errs[i].Field = "route" + strings.TrimPrefix(errs[i].Field, "routes[0]")
	}
	if len(cands) == 1 && len(cands[0].Coordinates) == 0 {
		errs = append(errs, FieldError{Field: "route.coordinates", Message: "coordinates or polyline required", Code: CodeRequired})
	}
	errs = append(errs, validateProfile("profile", r.Profile)...)
	if len(cands) == 0 {
		return routegraph.Candidate{}, errs
	}
	return cands[0], errs
}

// RouteGraphCompareRequest is the body of POST /v1/routes:compare.
type RouteGraphCompareRequest struct {
	RouteSet
	GraphOptions
}

// Validate checks the request and returns the resolved candidates.
func (r RouteGraphCompareRequest) Validate() ([]routegraph.Candidate, []FieldError) {
	cands, errs := r.Resolve()
	return cands, append(errs, validateProfile("profile", r.Profile)...)
}

// RouteOptimizeRequest is the body of POST /v1/routes:optimize. Language
// falls back to the Accept-Language header.
type RouteOptimizeRequest struct {
	RouteSet

	Profile  health.Profile       `json:"profile"`
	Activity health.ActivityLevel `json:"activityLevel,omitempty"`
	SpeedKmh float64              `json:"travelSpeedKmh,omitempty"`
	Language string               `json:"language,omitempty"`
}

// Validate checks the request and returns the resolved candidates.
func (r RouteOptimizeRequest) Validate() ([]routegraph.Candidate, []FieldError) {
	cands, errs := r.Resolve()
	return cands, append(errs, validateProfile("profile", r.Profile)...)
}
