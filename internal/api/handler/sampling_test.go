package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/phri/internal/airquality"
	"github.com/breatheroute/phri/internal/api/handler"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/routegraph"
	"github.com/breatheroute/phri/pkg/geo"
)

func amsterdamSnapshot() *airquality.Snapshot {
	return &airquality.Snapshot{Stations: []airquality.Station{
		{ID: "NL10938", Location: geo.Coordinate{Lat: 52.366, Lon: 4.859}, PM25: 18},
	}}
}

func TestRouteSampler_Fill(t *testing.T) {
	s := handler.NewRouteSampler(nil, 0)

	cands := []routegraph.Candidate{
		{RouteCandidate: exposure.RouteCandidate{
			Index:       1,
			Coordinates: []geo.Coordinate{{Lat: 52.370, Lon: 4.890}, {Lat: 52.360, Lon: 4.900}},
		}},
		{RouteCandidate: exposure.RouteCandidate{Index: 2, Samples: []float64{40, 40}}},
	}

	sampled, errs := s.Fill(cands, amsterdamSnapshot(), 0)

	require.Empty(t, errs)
	assert.Equal(t, []int{0}, sampled)
	require.NotEmpty(t, cands[0].Samples)
	assert.Len(t, cands[0].SampleLocations, len(cands[0].Samples))
	for _, v := range cands[0].Samples {
		assert.InDelta(t, 18.0, v, 1e-6)
	}
	assert.Equal(t, []float64{40, 40}, cands[1].Samples)
}

func TestRouteSampler_Fill_Errors(t *testing.T) {
	s := handler.NewRouteSampler(nil, 100)

	cands := []routegraph.Candidate{
		{RouteCandidate: exposure.RouteCandidate{Index: 1}},
		{RouteCandidate: exposure.RouteCandidate{
			Index:       2,
			Coordinates: []geo.Coordinate{{Lat: 10.80, Lon: 106.70}, {Lat: 10.81, Lon: 106.71}},
		}},
	}

	sampled, errs := s.Fill(cands, amsterdamSnapshot(), 0)

	assert.Empty(t, sampled)
	require.Len(t, errs, 2)
	assert.Equal(t, "routes[0].coordinates", errs[0].Field)
	assert.Equal(t, models.CodeRequired, errs[0].Code)
	assert.Equal(t, "routes[1].samples", errs[1].Field)
	assert.Equal(t, models.CodeUnavailable, errs[1].Code)
}
