package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/phri/internal/api"
	"github.com/breatheroute/phri/internal/api/handler"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/fusion"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/optimizer"
	"github.com/breatheroute/phri/internal/riskengine"
	"github.com/breatheroute/phri/internal/routegraph"
)

func newTestRouter() http.Handler {
	return newTestRouterWith(api.RouterConfig{})
}

func newTestRouterWith(cfg api.RouterConfig) http.Handler {
	cfg.Version = "test"
	cfg.BuildTime = "2026-01-01T00:00:00Z"
	cfg.Logger = zerolog.New(io.Discard)
	if cfg.DefaultSpeedKmh == 0 {
		cfg.DefaultSpeedKmh = 15
	}
	return api.NewRouter(cfg)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var h models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))

	assert.Equal(t, models.HealthStatusOK, h.Status)
	assert.Equal(t, "test", h.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	ops := handler.NewOpsHandler("test", "")
	router := newTestRouterWith(api.RouterConfig{Ops: ops})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	ops.SetDraining()

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var h models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.Equal(t, models.HealthStatusFail, h.Status)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enums))

	assert.Contains(t, enums.Diseases, health.DiseaseAsthma)
	assert.Len(t, enums.RiskLevels, 4)
	assert.Contains(t, enums.TravelModes, riskengine.ModeCycling)
	assert.Contains(t, enums.ActivityModes, fusion.ModeSkytrain)
	assert.Contains(t, enums.WarningLevels, optimizer.WarningDanger)
	assert.Equal(t, []string{"en", "vi"}, enums.Languages)
}

func TestRouter_ExposureScore(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:score", `{
		"exposure": {"pm25": 55, "durationMinutes": 60, "activityLevel": "moderate", "isOutdoor": true},
		"profile": {"age": 70, "diseases": ["asthma"]}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res exposure.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Greater(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 100.0)
	assert.NotEmpty(t, res.Level)
}

func TestRouter_ExposureScore_ValidationError(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:score", `{
		"exposure": {"pm25": 20, "durationMinutes": 10},
		"profile": {"age": 30, "diseases": ["gout"]}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "/v1/exposure:score", p.Instance)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, models.CodeUnknown, p.Errors[0].Code)
}

func TestRouter_InvalidJSON(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/risk:compute", `{"airQuality":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "invalid JSON body", p.Detail)
}

func TestRouter_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/risk:compute", strings.NewReader("pm25=10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_PayloadTooLarge(t *testing.T) {
	router := newTestRouterWith(api.RouterConfig{MaxBodyBytes: 64})

	body := `{"exposure": {"pm25": 10, "durationMinutes": 10}, "profile": {"age": 30, "diseases": ["general", "general", "general"]}}`
	w := postJSON(t, router, "/v1/exposure:score", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_CompareRoutes(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:compare-routes", `{
		"profile": {"age": 40, "diseases": ["asthma"]},
		"routes": [
			{"durationSeconds": 900, "samples": [80, 85, 90]},
			{"durationSeconds": 900, "samples": [8, 10, 12]}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.RouteCompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Routes, 2)
	assert.Equal(t, 2, res.SafestIndex)
	assert.Equal(t, 1, res.Routes[0].Rank)
	assert.Equal(t, 2, res.Routes[0].RouteIndex)
	assert.Less(t, res.Routes[0].AveragePHRI, res.Routes[1].AveragePHRI)
}

func TestRouter_CompareRoutes_Empty(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:compare-routes", `{"profile": {"age": 40}, "routes": []}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, models.ProblemTypeUnprocessable, p.Type)
}

func TestRouter_CompareRoutes_MissingSamples(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:compare-routes", `{
		"profile": {"age": 40},
		"routes": [{"durationSeconds": 900, "coordinates": [{"lat": 52.37, "lon": 4.89}, {"lat": 52.36, "lon": 4.90}]}]
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "routes[0].samples", p.Errors[0].Field)
	assert.Equal(t, models.CodeRequired, p.Errors[0].Code)
}

func TestRouter_CompareRoutes_InterpolatesFromSnapshot(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:compare-routes", `{
		"profile": {"age": 40},
		"airQuality": {"stations": [{"id": "NL10938", "location": {"lat": 52.366, "lon": 4.859}, "pm25": 12}]},
		"routes": [
			{"durationSeconds": 600, "coordinates": [{"lat": 52.370, "lon": 4.890}, {"lat": 52.360, "lon": 4.900}]},
			{"durationSeconds": 600, "samples": [60, 60]}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.RouteCompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.SafestIndex)
	assert.InDelta(t, 12.0, res.Routes[0].MeanConcentration, 0.5)
}

func TestRouter_CompareRoutes_NoStationsInRange(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/exposure:compare-routes", `{
		"profile": {"age": 40},
		"airQuality": {"stations": [{"id": "far", "location": {"lat": 10.8, "lon": 106.7}, "pm25": 30}]},
		"routes": [{"durationSeconds": 600, "coordinates": [{"lat": 52.37, "lon": 4.89}, {"lat": 52.36, "lon": 4.90}]}]
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	p := decodeProblem(t, w)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "routes[0].samples", p.Errors[0].Field)
	assert.Equal(t, models.CodeUnavailable, p.Errors[0].Code)
}

func TestRouter_RiskCompute(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/risk:compute", `{
		"airQuality": {"pm25": 120, "aqi": 180},
		"profile": {"age": 8, "diseases": ["asthma"], "sensitivity": "high"},
		"travel": {"mode": "cycling", "durationMinutes": 45}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var bd riskengine.Breakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bd))
	assert.Greater(t, bd.Total, 50.0)
	assert.Contains(t, []riskengine.Category{riskengine.CategoryHigh, riskengine.CategorySevere}, bd.Category)
	assert.NotEmpty(t, bd.Recommendations)
}

func TestRouter_Decisions(t *testing.T) {
	router := newTestRouterWith(api.RouterConfig{DecisionMaxChars: 140})

	w := postJSON(t, router, "/v1/decisions", `{
		"airQuality": {"pm25": 5},
		"profile": {"age": 30},
		"travel": {"mode": "walking", "durationMinutes": 15},
		"destination": "Vondelpark"
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, riskengine.CategoryLow, res.Risk.Category)
	assert.Equal(t, res.Risk.Category, res.Decision.Category)
	assert.NotEmpty(t, res.Decision.Text)
	assert.LessOrEqual(t, len([]rune(res.Decision.Text)), 140)
}

func TestRouter_ContextFuse(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/context:fuse", `{
		"environment": {"pm25": 75, "observedAt": "2026-03-10T08:00:00Z"},
		"location": {"type": "outdoor", "nearbySources": ["highway"]},
		"activity": {"mode": "cycling", "durationMinutes": 30},
		"user": {"profile": {"age": 35, "diseases": ["asthma"]}}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ctx fusion.Context
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ctx))
	assert.Equal(t, 75.0, ctx.RawConcentration)
	assert.NotEmpty(t, ctx.Level)
	assert.NotEmpty(t, ctx.DecisionText)
}

func TestRouter_RouteGraph(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/routes:graph", `{
		"profile": {"age": 40},
		"route": {
			"durationSeconds": 600,
			"coordinates": [{"lat": 52.370, "lon": 4.890}, {"lat": 52.365, "lon": 4.895}, {"lat": 52.360, "lon": 4.900}],
			"samples": [10, 20, 30]
		}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var route routegraph.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
	assert.Len(t, route.Nodes, 3)
	assert.Len(t, route.Edges, 2)
	assert.InDelta(t, 600.0, route.TotalDurationSeconds, 0.01)
}

func TestRouter_RouteGraph_RequiresCoordinates(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/routes:graph", `{"profile": {"age": 40}, "route": {"samples": [10]}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	require.NotEmpty(t, p.Errors)
	assert.Equal(t, "route.coordinates", p.Errors[0].Field)
}

func TestRouter_RouteCompare(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/routes:compare", `{
		"profile": {"age": 40},
		"routes": [
			{"durationSeconds": 600, "coordinates": [{"lat": 52.37, "lon": 4.89}, {"lat": 52.36, "lon": 4.90}], "samples": [90, 90]},
			{"durationSeconds": 900, "coordinates": [{"lat": 52.37, "lon": 4.89}, {"lat": 52.36, "lon": 4.91}], "samples": [10, 10]}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp routegraph.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Len(t, cmp.Routes, 2)
	assert.Equal(t, 2, cmp.SafestIndex)
	assert.Equal(t, 1, cmp.FastestIndex)
	assert.Greater(t, cmp.HealthSavingPct, 0.0)
}

func TestRouter_RouteOptimize_AcceptLanguage(t *testing.T) {
	router := newTestRouter()

	body := `{
		"profile": {"age": 40},
		"routes": [
			{"distanceMeters": 3000, "durationSeconds": 600, "samples": [80, 80]},
			{"distanceMeters": 3500, "durationSeconds": 700, "samples": [10, 10]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/routes:optimize", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res optimizer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Recommended.RouteIndex)
	assert.Equal(t, "vi", res.Language)
	assert.Contains(t, res.DecisionText, "Tuyến 2")
}

func TestRouter_RouteOptimize_TooManyRoutes(t *testing.T) {
	router := newTestRouter()

	routes := make([]string, models.MaxRoutes+1)
	for i := range routes {
		routes[i] = `{"durationSeconds": 60, "samples": [10]}`
	}
	w := postJSON(t, router, "/v1/routes:optimize", `{"profile": {"age": 40}, "routes": [`+strings.Join(routes, ",")+`]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	require.NotEmpty(t, p.Errors)
	assert.Equal(t, models.CodeTooMany, p.Errors[0].Code)
}

func TestRouter_ComputeRateLimit(t *testing.T) {
	router := newTestRouterWith(api.RouterConfig{ComputeRateLimit: 2})

	body := `{"exposure": {"pm25": 10, "durationMinutes": 10}, "profile": {"age": 30}}`
	for i := 0; i < 2; i++ {
		w := postJSON(t, router, "/v1/exposure:score", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := postJSON(t, router, "/v1/exposure:score", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.True(t, strings.HasPrefix(w.Header().Get("X-Request-Id"), "req_"))
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "req_custom123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req_custom123", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, models.ProblemTypeNotFound, p.Type)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/risk:compute", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
