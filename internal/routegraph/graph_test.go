package routegraph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/routegraph"
	"github.com/breatheroute/phri/pkg/geo"
)

// meridian is three points 0.01° apart (~1.1 km per edge).
var meridian = []geo.Coordinate{
	{Lat: 52.00, Lon: 4.90},
	{Lat: 52.01, Lon: 4.90},
	{Lat: 52.02, Lon: 4.90},
}

func newBuilder() *routegraph.Builder {
	return routegraph.New(routegraph.Config{Profile: health.Profile{Age: 30}})
}

func candidate(index int, pm, durationSeconds float64) routegraph.Candidate {
	return routegraph.Candidate{RouteCandidate: exposure.RouteCandidate{
		Index:           index,
		Coordinates:     meridian,
		DurationSeconds: durationSeconds,
		Samples:         []float64{pm, pm, pm},
	}}
}

func TestBuild_NodesAndEdges(t *testing.T) {
	r := newBuilder().Build(meridian, []float64{50, 100, 150}, 600)

	require.Len(t, r.Nodes, 3)
	require.Len(t, r.Edges, 2)
	assert.Equal(t, 100.0, r.Nodes[1].Concentration)

	assert.InDelta(t, 300, r.Edges[0].DurationSeconds, 0.1)
	assert.Equal(t, 75.0, r.Edges[0].Concentration)
	assert.Equal(t, 125.0, r.Edges[1].Concentration)
	assert.InDelta(t, 22.5, r.Edges[0].HealthWeight, 0.1)
	assert.InDelta(t, 37.5, r.Edges[1].HealthWeight, 0.1)

	assert.InDelta(t, 600, r.TotalDurationSeconds, 0.2)
	assert.InDelta(t, 2224, r.TotalDistanceMeters, 5)
	assert.InDelta(t, 1000, r.TotalExposureCost, 0.5)
	assert.InDelta(t, 30, r.AverageWeight, 0.1)
	assert.Equal(t, r.Edges[1].HealthWeight, r.MaxWeight)
	assert.InDelta(t, 32.25, r.OverallScore, 0.1)
	assert.Equal(t, health.RiskModerate, r.Level)
	assert.Zero(t, r.HighRiskSegments)
}

func TestBuild_SegmentContextAdjustsConcentration(t *testing.T) {
	r := newBuilder().Build(meridian, []float64{100, 100, 100}, 600,
		routegraph.SegmentContext{Road: routegraph.RoadHighway, Traffic: routegraph.TrafficCongested},
		routegraph.SegmentContext{Road: routegraph.RoadPedestrian, GreenCover: true},
	)

	assert.InDelta(t, 182, r.Edges[0].Concentration, 0.01)
	assert.InDelta(t, 51, r.Edges[1].Concentration, 0.01)
	assert.Greater(t, r.Edges[0].HealthWeight, r.Edges[1].HealthWeight)
}

func TestBuild_MissingSamplesReuseLastKnown(t *testing.T) {
	r := newBuilder().Build(meridian, []float64{80, -1}, 600)

	for _, n := range r.Nodes {
		assert.Equal(t, 80.0, n.Concentration)
	}
}

func TestBuildCandidate_MatchesNodesToNearestSample(t *testing.T) {
	coords := make([]geo.Coordinate, 10)
	for i := range coords {
		coords[i] = geo.Coordinate{Lat: 52.00 + float64(i)*0.01, Lon: 4.90}
	}
	c := routegraph.Candidate{RouteCandidate: exposure.RouteCandidate{
		Coordinates:     coords,
		DurationSeconds: 900,
		Samples:         []float64{5, 300},
		SampleLocations: []geo.Coordinate{coords[0], coords[9]},
	}}

	r := newBuilder().BuildCandidate(c)

	require.Len(t, r.Nodes, 10)
	for i, n := range r.Nodes {
		if i < 5 {
			assert.Equal(t, 5.0, n.Concentration, "node %d", i)
		} else {
			assert.Equal(t, 300.0, n.Concentration, "node %d", i)
		}
	}

	cmp, err := newBuilder().Compare(context.Background(), []routegraph.Candidate{c})
	require.NoError(t, err)
	assert.Equal(t, r.Nodes, cmp.Routes[0].Nodes)
}

func TestBuildCandidate_WithoutLocationsUsesSampleOrder(t *testing.T) {
	r := newBuilder().BuildCandidate(candidate(0, 40, 600))
	for _, n := range r.Nodes {
		assert.Equal(t, 40.0, n.Concentration)
	}
}

func TestBuild_SingleCoordinateFallback(t *testing.T) {
	r := newBuilder().Build(meridian[:1], []float64{80}, 1200)

	require.Len(t, r.Edges, 1)
	assert.Equal(t, 1200.0, r.Edges[0].DurationSeconds)
	assert.Equal(t, 80.0, r.Edges[0].Concentration)
	assert.Greater(t, r.Edges[0].HealthWeight, 0.0)
	assert.Equal(t, r.Edges[0].HealthWeight, r.AverageWeight)

	empty := newBuilder().Build(nil, nil, 0)
	require.Len(t, empty.Edges, 1)
	assert.Zero(t, empty.OverallScore)
	assert.Equal(t, health.RiskLow, empty.Level)
}

func TestSegmentMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, routegraph.SegmentMultiplier(routegraph.SegmentContext{}))
	assert.Equal(t, 1.0, routegraph.SegmentMultiplier(routegraph.SegmentContext{Road: "gravel", Traffic: "unknown"}))
	assert.Equal(t, 1.4, routegraph.SegmentMultiplier(routegraph.SegmentContext{Road: routegraph.RoadHighway}))
	assert.Equal(t, 0.6, routegraph.SegmentMultiplier(routegraph.SegmentContext{Road: routegraph.RoadPedestrian}))
	assert.Len(t, routegraph.AllRoadTypes(), 6)
	assert.Len(t, routegraph.AllTrafficLevels(), 4)
}

func TestCompare_NoRoutes(t *testing.T) {
	_, err := newBuilder().Compare(context.Background(), nil)
	assert.True(t, errors.Is(err, exposure.ErrNoRoutes))
}

func TestCompare_Recommendations(t *testing.T) {
	tests := []struct {
		name        string
		routes      []routegraph.Candidate
		want        routegraph.Recommendation
		wantSafest  int
		wantFastest int
	}{
		{
			name:        "fastest is safest",
			routes:      []routegraph.Candidate{candidate(0, 40, 600), candidate(1, 40, 900)},
			want:        routegraph.RecommendIdentical,
			wantSafest:  0,
			wantFastest: 0,
		},
		{
			name:        "large saving prefers safest",
			routes:      []routegraph.Candidate{candidate(0, 150, 600), candidate(1, 30, 900)},
			want:        routegraph.RecommendSafest,
			wantSafest:  1,
			wantFastest: 0,
		},
		{
			name:        "small saving for a long detour prefers fastest",
			routes:      []routegraph.Candidate{candidate(0, 100, 600), candidate(1, 73, 1600)},
			want:        routegraph.RecommendFastest,
			wantSafest:  1,
			wantFastest: 0,
		},
		{
			name:        "moderate saving is balanced",
			routes:      []routegraph.Candidate{candidate(0, 100, 600), candidate(1, 80, 900)},
			want:        routegraph.RecommendBalanced,
			wantSafest:  1,
			wantFastest: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := newBuilder().Compare(context.Background(), tt.routes)
			require.NoError(t, err)

			assert.Equal(t, tt.want, cmp.Recommendation)
			assert.Equal(t, tt.wantSafest, cmp.SafestIndex)
			assert.Equal(t, tt.wantFastest, cmp.FastestIndex)
			assert.NotEmpty(t, cmp.DecisionText)
			assert.Len(t, cmp.Routes, len(tt.routes))
		})
	}
}

func TestCompare_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBuilder().Compare(ctx, []routegraph.Candidate{candidate(0, 50, 600)})
	assert.ErrorIs(t, err, context.Canceled)
}
