package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/breatheroute/phri/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})

	require.NoError(t, err)
	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestProvider_Shutdown_NilProviders(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, telemetry.Sampler(0).Description(), "AlwaysOnSampler")
	assert.Contains(t, telemetry.Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, telemetry.Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")

	var _ sdktrace.Sampler = telemetry.Sampler(0.5)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestScoringMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := telemetry.NewScoringMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordScore(ctx, telemetry.EngineExposure, 30, "moderate")
	m.RecordScore(ctx, telemetry.EngineExposure, 80, "severe")
	m.RecordRoutes(ctx, telemetry.EngineOptimizer, 3, 2)

	metrics := collect(t, reader)

	scores, ok := metrics["phri.score"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, scores.DataPoints, 1)
	assert.Equal(t, uint64(2), scores.DataPoints[0].Count)
	assert.InDelta(t, 110.0, scores.DataPoints[0].Sum, 1e-9)

	levels, ok := metrics["phri.level.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, levels.DataPoints, 2)

	sampled, ok := metrics["phri.routes.interpolated"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sampled.DataPoints, 1)
	assert.Equal(t, int64(2), sampled.DataPoints[0].Value)
}

func TestScoringMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.ScoringMetrics
	assert.NotPanics(t, func() {
		m.RecordScore(context.Background(), telemetry.EngineRisk, 10, "LOW")
		m.RecordRoutes(context.Background(), telemetry.EngineRouteGraph, 2, 0)
	})
}
