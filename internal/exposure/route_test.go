package exposure_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

func straightRoute(index int, samples []float64) exposure.RouteCandidate {
	coords := make([]geo.Coordinate, len(samples))
	for i := range coords {
		coords[i] = geo.Coordinate{Lat: 52.37 + float64(i)*0.005, Lon: 4.89}
	}
	return exposure.RouteCandidate{
		Index:           index,
		Coordinates:     coords,
		DistanceMeters:  5000,
		DurationSeconds: 1200,
		Samples:         samples,
		SampleLocations: coords,
	}
}

func TestCompareRouteRisks_ScaledSamplesRankLower(t *testing.T) {
	a := straightRoute(1, []float64{20, 40, 60})
	b := straightRoute(0, []float64{40, 80, 120})

	ranked, err := exposure.CompareRouteRisks(
		[]exposure.RouteCandidate{b, a}, healthyAdult(), 15, health.ActivityLight,
	)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, 1, ranked[0].RouteIndex)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.True(t, ranked[0].Safest)
	assert.False(t, ranked[1].Safest)
	assert.Equal(t, 2, ranked[1].Rank)

	assert.GreaterOrEqual(t, ranked[1].AveragePHRI, ranked[0].AveragePHRI)
	assert.GreaterOrEqual(t, ranked[1].PeakPHRI, ranked[0].PeakPHRI)
	assert.NotEmpty(t, ranked[0].Comparison)
	assert.InDelta(t, 20, ranked[0].TripMinutes, 0.01)
	assert.Equal(t, 40.0, ranked[0].MeanConcentration)
	assert.Equal(t, 60.0, ranked[0].PeakConcentration)
}

func TestCompareRouteRisks_OrderConsistentWithAverage(t *testing.T) {
	routes := []exposure.RouteCandidate{
		straightRoute(0, []float64{55, 60, 58}),
		straightRoute(1, []float64{10, 12, 9}),
		straightRoute(2, []float64{90, 30, 20}),
		straightRoute(3, []float64{35, 35, 35}),
		straightRoute(4, []float64{10, 12, 9}),
	}

	ranked, err := exposure.CompareRouteRisks(routes, healthyAdult(), 12, health.ActivityModerate)
	require.NoError(t, err)

	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].AveragePHRI, ranked[i].AveragePHRI)
	}
	// identical routes keep input order
	assert.Equal(t, 1, ranked[0].RouteIndex)
	assert.Equal(t, 4, ranked[1].RouteIndex)
}

func TestCompareRouteRisks_NoRoutes(t *testing.T) {
	_, err := exposure.CompareRouteRisks(nil, healthyAdult(), 15, health.ActivityLight)
	assert.ErrorIs(t, err, exposure.ErrNoRoutes)
}

func TestCompareRouteRisks_NoComparisonForSmallDelta(t *testing.T) {
	ranked, err := exposure.CompareRouteRisks([]exposure.RouteCandidate{
		straightRoute(0, []float64{20, 21}),
		straightRoute(1, []float64{21, 22}),
	}, healthyAdult(), 15, health.ActivityLight)
	require.NoError(t, err)
	assert.Empty(t, ranked[0].Comparison)
}

func TestCompareRouteRisks_RouteWithoutSamples(t *testing.T) {
	ranked, err := exposure.CompareRouteRisks([]exposure.RouteCandidate{
		{Index: 0, DistanceMeters: 1000, DurationSeconds: 300},
	}, healthyAdult(), 0, health.ActivityLight)
	require.NoError(t, err)

	assert.Zero(t, ranked[0].AveragePHRI)
	assert.Zero(t, ranked[0].SampleCount)
	assert.Equal(t, health.RiskLow, ranked[0].Level)
	assert.InDelta(t, 5, ranked[0].TripMinutes, 0.01)
}

func TestRouteCandidate_SampleAlignment(t *testing.T) {
	r := exposure.RouteCandidate{
		Samples: []float64{10, math.NaN(), -3, 25, 30},
		SampleLocations: []geo.Coordinate{
			{Lat: 1, Lon: 1}, {Lat: 1, Lon: 1.1}, {Lat: 1, Lon: 1.2}, {Lat: 1, Lon: 1.3},
		},
	}

	assert.Equal(t, 4, r.SampleCount())
	assert.Equal(t, []float64{10, 10, 10, 25}, r.Concentrations())
	assert.Equal(t, 25.0, r.ConcentrationAt(10), "samples without a location are ignored")

	leadingGap := exposure.RouteCandidate{Samples: []float64{-1, 18}}
	assert.Equal(t, 18.0, leadingGap.ConcentrationAt(0))
	assert.Zero(t, exposure.RouteCandidate{}.ConcentrationAt(0))
}

func TestRouteCandidate_TripMinutes(t *testing.T) {
	r := exposure.RouteCandidate{DistanceMeters: 10000, DurationSeconds: 1800}
	assert.InDelta(t, 40, r.TripMinutes(15), 1e-9)
	assert.InDelta(t, 30, r.TripMinutes(0), 1e-9)

	// ~2224 m of path at 15 km/h
	pathOnly := exposure.RouteCandidate{Coordinates: []geo.Coordinate{
		{Lat: 52.00, Lon: 4.90}, {Lat: 52.01, Lon: 4.90}, {Lat: 52.02, Lon: 4.90},
	}}
	assert.InDelta(t, 8.9, pathOnly.TripMinutes(15), 0.05)
	assert.Zero(t, pathOnly.TripMinutes(0))
}

func TestCompareRouteRisks_CoordinatesOnlyRoutes(t *testing.T) {
	coords := []geo.Coordinate{
		{Lat: 52.00, Lon: 4.90}, {Lat: 52.01, Lon: 4.90}, {Lat: 52.02, Lon: 4.90},
	}
	routes := []exposure.RouteCandidate{
		{Index: 0, Coordinates: coords, Samples: []float64{400, 400, 400}},
		{Index: 1, Coordinates: coords, Samples: []float64{5, 5, 5}},
	}

	ranked, err := exposure.CompareRouteRisks(routes, healthyAdult(), 15, health.ActivityModerate)
	require.NoError(t, err)

	assert.Equal(t, 1, ranked[0].RouteIndex)
	assert.True(t, ranked[0].Safest)
	assert.Greater(t, ranked[1].AveragePHRI, ranked[0].AveragePHRI)
	assert.Greater(t, ranked[0].TripMinutes, 0.0)
}
