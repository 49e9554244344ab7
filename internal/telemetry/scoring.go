package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Engine names used as the "phri.engine" attribute.
const (
	EngineExposure   = "exposure"
	EngineRisk       = "riskengine"
	EngineFusion     = "fusion"
	EngineRouteGraph = "routegraph"
	EngineOptimizer  = "optimizer"
	EngineAdvisor    = "advisor"
)

// ScoringMetrics records the distribution of computed scores and levels per
// engine. A nil *ScoringMetrics records nothing.
type ScoringMetrics struct {
	scores  metric.Float64Histogram
	levels  metric.Int64Counter
	routes  metric.Int64Histogram
	sampled metric.Int64Counter
}

// NewScoringMetrics creates the scoring instruments on meter.
func NewScoringMetrics(meter metric.Meter) (*ScoringMetrics, error) {
	scores, err := meter.Float64Histogram(
		"phri.score",
		metric.WithDescription("Distribution of computed 0-100 risk scores"),
		metric.WithUnit("{score}"),
		metric.WithExplicitBucketBoundaries(10, 25, 40, 50, 60, 75, 90, 100),
	)
	if err != nil {
		return nil, err
	}

	levels, err := meter.Int64Counter(
		"phri.level.total",
		metric.WithDescription("Number of results per risk level"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, err
	}

	routes, err := meter.Int64Histogram(
		"phri.routes.candidates",
		metric.WithDescription("Number of route candidates per request"),
		metric.WithUnit("{route}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	sampled, err := meter.Int64Counter(
		"phri.routes.interpolated",
		metric.WithDescription("Number of routes whose samples were interpolated from stations"),
		metric.WithUnit("{route}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScoringMetrics{scores: scores, levels: levels, routes: routes, sampled: sampled}, nil
}

// RecordScore records one score and its level for engine.
func (m *ScoringMetrics) RecordScore(ctx context.Context, engine string, score float64, level string) {
	if m == nil {
		return
	}
	engineAttr := metric.WithAttributes(attribute.String("phri.engine", engine))
	m.scores.Record(ctx, score, engineAttr)
	m.levels.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phri.engine", engine),
		attribute.String("phri.level", level),
	))
}

// RecordRoutes records the size of a candidate set and how many of its
// routes were sampled by interpolation.
func (m *ScoringMetrics) RecordRoutes(ctx context.Context, engine string, candidates, interpolated int) {
	if m == nil {
		return
	}
	engineAttr := metric.WithAttributes(attribute.String("phri.engine", engine))
	m.routes.Record(ctx, int64(candidates), engineAttr)
	if interpolated > 0 {
		m.sampled.Add(ctx, int64(interpolated), engineAttr)
	}
}
