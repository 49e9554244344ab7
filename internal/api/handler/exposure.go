package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/breatheroute/phri/internal/api/middleware"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/routegraph"
	"github.com/breatheroute/phri/internal/telemetry"
)

// ExposureHandler handles exposure scoring endpoints.
type ExposureHandler struct {
	metrics      *telemetry.ScoringMetrics
	sampler      *RouteSampler
	defaultSpeed float64
}

// NewExposureHandler creates a new ExposureHandler. defaultSpeedKmh is used
// for routes that carry no duration of their own.
func NewExposureHandler(metrics *telemetry.ScoringMetrics, sampler *RouteSampler, defaultSpeedKmh float64) *ExposureHandler {
	return &ExposureHandler{metrics: metrics, sampler: sampler, defaultSpeed: defaultSpeedKmh}
}

// Score handles POST /v1/exposure:score - score a single exposure.
func (h *ExposureHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req models.ExposureScoreRequest
	if !decodeJSON(w, r, &req) || rejectInvalid(w, r, req.Validate()) {
		return
	}

	res := exposure.ComputeRisk(req.Exposure, req.Profile)
	h.metrics.RecordScore(r.Context(), telemetry.EngineExposure, res.Score, string(res.Level))

	response.JSON(w, r, http.StatusOK, res)
}

// CompareRoutes handles POST /v1/exposure:compare-routes - rank candidate
// routes by average PHRI.
func (h *ExposureHandler) CompareRoutes(w http.ResponseWriter, r *http.Request) {
	var req models.RouteCompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cands, errs := req.Validate()
	if rejectInvalid(w, r, errs) {
		return
	}
	sampled, ok := fillSamples(w, r, h.sampler, cands, req.RouteSet)
	if !ok {
		return
	}

	speed := effectiveSpeed(req.SpeedKmh, h.defaultSpeed, cands)
	ranked, err := exposure.CompareRouteRisks(routeCandidates(cands), req.Profile, speed, req.Activity)
	if errors.Is(err, exposure.ErrNoRoutes) {
		response.Unprocessable(w, r, "at least one route is required")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to compare routes")
		response.InternalError(w, r, "failed to compare routes")
		return
	}

	h.metrics.RecordRoutes(r.Context(), telemetry.EngineExposure, len(cands), len(sampled))
	h.metrics.RecordScore(r.Context(), telemetry.EngineExposure, ranked[0].AveragePHRI, string(ranked[0].Level))

	zerolog.Ctx(r.Context()).Debug().
		Int("routes", len(ranked)).
		Int("interpolated", len(sampled)).
		Int("safest", ranked[0].RouteIndex).
		Msg("compared route exposure")

	response.JSON(w, r, http.StatusOK, models.RouteCompareResponse{
		Routes:      ranked,
		SafestIndex: ranked[0].RouteIndex,
	})
}

// fillSamples interpolates missing samples, writing a 422 problem and
// returning false when a route cannot be sampled.
func fillSamples(w http.ResponseWriter, r *http.Request, s *RouteSampler, cands []routegraph.Candidate, set models.RouteSet) ([]int, bool) {
	if set.AirQuality == nil {
		return nil, true
	}
	sampled, errs := s.Fill(cands, set.AirQuality, set.SampleIntervalMeters)
	if len(errs) > 0 {
		response.Error(w, r, models.NewUnprocessable(
			middleware.GetRequestID(r.Context()),
			"air quality could not be estimated along every route",
		).WithErrors(errs))
		return nil, false
	}
	return sampled, true
}

// effectiveSpeed returns requested, or the default when a route has no
// duration to fall back on.
func effectiveSpeed(requested, fallback float64, cands []routegraph.Candidate) float64 {
	if requested > 0 {
		return requested
	}
	for _, c := range cands {
		if c.DurationSeconds <= 0 {
			return fallback
		}
	}
	return 0
}

func routeCandidates(cands []routegraph.Candidate) []exposure.RouteCandidate {
	out := make([]exposure.RouteCandidate, len(cands))
	for i, c := range cands {
		out[i] = c.RouteCandidate
	}
	return out
}
