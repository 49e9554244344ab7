package routegraph

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

// ErrNoRoutes is returned when Compare receives no candidates.
var ErrNoRoutes = exposure.ErrNoRoutes

const (
	greenCoverFactor = 0.85

	averageWeightShare = 0.7
	maxWeightShare     = 0.3

	safestSavingPct        = 30.0
	fastestTimeCostMin     = 15.0
	fastestMaxSavingPct    = 15.0
	identicalWeightEpsilon = 1e-9
)

var roadMultipliers = map[RoadType]float64{
	RoadHighway:     1.4,
	RoadArterial:    1.2,
	RoadUrban:       1.0,
	RoadResidential: 0.9,
	RoadCycleway:    0.7,
	RoadPedestrian:  0.6,
}

var trafficMultipliers = map[TrafficLevel]float64{
	TrafficLow:       0.8,
	TrafficModerate:  1.0,
	TrafficHigh:      1.15,
	TrafficCongested: 1.3,
}

// Config holds configuration for a Builder.
type Config struct {
	// Profile is the traveller whose health weights are computed.
	Profile health.Profile

	// Activity is the breathing intensity while travelling (default: light).
	Activity health.ActivityLevel

	HasMask bool
	Mask    health.MaskType

	// Logger for comparison events.
	Logger zerolog.Logger
}

// Builder builds health-weighted route graphs for one traveller.
type Builder struct {
	profile  health.Profile
	activity health.ActivityLevel
	hasMask  bool
	mask     health.MaskType
	logger   zerolog.Logger
}

// New creates a Builder.
func New(cfg Config) *Builder {
	activity := cfg.Activity
	if activity == "" {
		activity = health.ActivityLight
	}
	return &Builder{
		profile:  cfg.Profile,
		activity: activity,
		hasMask:  cfg.HasMask,
		mask:     cfg.Mask,
		logger:   cfg.Logger,
	}
}

// Build creates the graph for one route. segments[i] describes edge i; missing
// entries are neutral. With fewer than two coordinates a single pseudo-segment
// carries the whole duration.
func (b *Builder) Build(coords []geo.Coordinate, samples []float64, durationSeconds float64, segments ...SegmentContext) Route {
	if math.IsNaN(durationSeconds) || durationSeconds < 0 {
		durationSeconds = 0
	}
	series := exposure.RouteCandidate{Samples: samples}

	nodes := make([]Node, len(coords))
	for i, c := range coords {
		nodes[i] = Node{Index: i, Coordinate: c, Concentration: series.ConcentrationAt(i)}
	}

	if len(coords) < 2 {
		return b.buildSingle(nodes, series.ConcentrationAt(0), durationSeconds, segmentAt(segments, 0))
	}

	total := geo.PathLength(coords)
	edges := make([]Edge, 0, len(coords)-1)
	for i := 1; i < len(nodes); i++ {
		dist := geo.Distance(nodes[i-1].Coordinate, nodes[i].Coordinate)

		var share float64
		if total > 0 {
			share = dist / total
		} else {
			share = 1 / float64(len(nodes)-1)
		}

		conc := (nodes[i-1].Concentration + nodes[i].Concentration) / 2
		edges = append(edges, b.edge(i-1, i, dist, durationSeconds*share, conc, segmentAt(segments, i-1)))
	}

	return aggregate(nodes, edges)
}

// BuildCandidate builds c's graph. When c carries sample locations every node
// takes the sample nearest to it.
func (b *Builder) BuildCandidate(c Candidate) Route {
	return b.Build(c.Coordinates, nodeSamples(c.RouteCandidate), c.DurationSeconds, c.Segments...)
}

// nodeSamples returns one concentration per coordinate of r, matched by
// distance to the sample locations.
func nodeSamples(r exposure.RouteCandidate) []float64 {
	n := r.SampleCount()
	if len(r.SampleLocations) == 0 {
		return r.Samples
	}
	if len(r.Coordinates) == 0 || n == 0 {
		return r.Concentrations()
	}

	out := make([]float64, len(r.Coordinates))
	for i, c := range r.Coordinates {
		nearest, best := 0, math.Inf(1)
		for j := range n {
			if d := geo.Distance(c, r.SampleLocations[j]); d < best {
				nearest, best = j, d
			}
		}
		out[i] = r.ConcentrationAt(nearest)
	}
	return out
}

func (b *Builder) buildSingle(nodes []Node, conc, durationSeconds float64, seg SegmentContext) Route {
	return aggregate(nodes, []Edge{b.edge(0, 0, 0, durationSeconds, conc, seg)})
}

func (b *Builder) edge(from, to int, dist, seconds, conc float64, seg SegmentContext) Edge {
	adjusted := conc * SegmentMultiplier(seg)
	minutes := seconds / 60

	score := exposure.ComputeRisk(exposure.Input{
		PM25:            adjusted,
		DurationMinutes: minutes,
		Activity:        b.activity,
		Outdoor:         true,
		HasMask:         b.hasMask,
		Mask:            b.mask,
	}, b.profile)

	return Edge{
		From:            from,
		To:              to,
		DistanceMeters:  health.Round(dist, 1),
		DurationSeconds: health.Round(seconds, 1),
		Concentration:   health.Round(adjusted, 2),
		ExposureCost:    health.Round(adjusted*minutes, 2),
		HealthWeight:    score.Score,
		Level:           score.Level,
	}
}

// SegmentMultiplier combines the road, traffic and green-cover adjustments.
func SegmentMultiplier(seg SegmentContext) float64 {
	m := lookup(roadMultipliers, seg.Road) * lookup(trafficMultipliers, seg.Traffic)
	if seg.GreenCover {
		m *= greenCoverFactor
	}
	return m
}

func aggregate(nodes []Node, edges []Edge) Route {
	r := Route{Nodes: nodes, Edges: edges}

	var sumWeight float64
	for _, e := range edges {
		r.TotalDistanceMeters += e.DistanceMeters
		r.TotalDurationSeconds += e.DurationSeconds
		r.TotalExposureCost += e.ExposureCost
		sumWeight += e.HealthWeight
		r.MaxWeight = math.Max(r.MaxWeight, e.HealthWeight)
		if e.Level.AtLeastHigh() {
			r.HighRiskSegments++
		}
	}
	if len(edges) > 0 {
		r.AverageWeight = sumWeight / float64(len(edges))
	}

	r.OverallScore = health.Round(averageWeightShare*r.AverageWeight+maxWeightShare*r.MaxWeight, 1)
	r.Level = health.RiskLevelFromScore(r.OverallScore)
	r.AverageWeight = health.Round(r.AverageWeight, 2)
	r.TotalDistanceMeters = health.Round(r.TotalDistanceMeters, 1)
	r.TotalDurationSeconds = health.Round(r.TotalDurationSeconds, 1)
	r.TotalExposureCost = health.Round(r.TotalExposureCost, 2)
	return r
}

// Compare builds every candidate concurrently and picks the safest and
// fastest routes.
func (b *Builder) Compare(ctx context.Context, candidates []Candidate) (*Comparison, error) {
	if len(candidates) == 0 {
		return nil, ErrNoRoutes
	}

	routes := make([]Route, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			routes[i] = b.BuildCandidate(candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build route graphs: %w", err)
	}

	safest, fastest := 0, 0
	for i, r := range routes {
		if r.AverageWeight < routes[safest].AverageWeight {
			safest = i
		}
		if r.TotalDurationSeconds < routes[fastest].TotalDurationSeconds {
			fastest = i
		}
	}

	cmp := &Comparison{
		Routes:       routes,
		SafestIndex:  candidates[safest].Index,
		FastestIndex: candidates[fastest].Index,
	}

	s, f := routes[safest], routes[fastest]
	if f.AverageWeight > 0 {
		cmp.HealthSavingPct = health.Round((f.AverageWeight-s.AverageWeight)/f.AverageWeight*100, 1)
	}
	cmp.TimeCostMinutes = health.Round((s.TotalDurationSeconds-f.TotalDurationSeconds)/60, 1)

	identical := safest == fastest || math.Abs(s.AverageWeight-f.AverageWeight) < identicalWeightEpsilon
	cmp.Recommendation, cmp.DecisionText = decide(identical, cmp)

	b.logger.Debug().
		Int("routes", len(routes)).
		Int("safest", cmp.SafestIndex).
		Int("fastest", cmp.FastestIndex).
		Float64("health_saving_pct", cmp.HealthSavingPct).
		Str("recommendation", string(cmp.Recommendation)).
		Msg("compared route graphs")

	return cmp, nil
}

func decide(identical bool, c *Comparison) (Recommendation, string) {
	switch {
	case identical:
		return RecommendIdentical, "The fastest route is also the safest."
	case c.HealthSavingPct > safestSavingPct:
		return RecommendSafest, fmt.Sprintf(
			"Take route %d: %.0f%% lower health risk for %.0f extra minutes.",
			c.SafestIndex, c.HealthSavingPct, c.TimeCostMinutes)
	case c.TimeCostMinutes > fastestTimeCostMin && c.HealthSavingPct < fastestMaxSavingPct:
		return RecommendFastest, fmt.Sprintf(
			"Take route %d: the cleaner route saves only %.0f%% risk but costs %.0f extra minutes.",
			c.FastestIndex, c.HealthSavingPct, c.TimeCostMinutes)
	default:
		return RecommendBalanced, fmt.Sprintf(
			"Route %d cuts health risk by %.0f%% for %.0f extra minutes.",
			c.SafestIndex, c.HealthSavingPct, c.TimeCostMinutes)
	}
}

func segmentAt(segments []SegmentContext, i int) SegmentContext {
	if i < len(segments) {
		return segments[i]
	}
	return SegmentContext{}
}

func lookup[K comparable](table map[K]float64, key K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return 1.0
}
