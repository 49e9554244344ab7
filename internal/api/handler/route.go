package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/optimizer"
	"github.com/breatheroute/phri/internal/routegraph"
	"github.com/breatheroute/phri/internal/telemetry"
)

// RouteHandler handles health-weighted route graphs and safety optimization.
type RouteHandler struct {
	optimizer    *optimizer.Optimizer
	sampler      *RouteSampler
	metrics      *telemetry.ScoringMetrics
	defaultSpeed float64
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(opt *optimizer.Optimizer, sampler *RouteSampler, metrics *telemetry.ScoringMetrics, defaultSpeedKmh float64) *RouteHandler {
	if opt == nil {
		opt = optimizer.New(optimizer.DefaultConfig())
	}
	return &RouteHandler{optimizer: opt, sampler: sampler, metrics: metrics, defaultSpeed: defaultSpeedKmh}
}

func (h *RouteHandler) builder(ctx context.Context, opts models.GraphOptions) *routegraph.Builder {
	return routegraph.New(routegraph.Config{
		Profile:  opts.Profile,
		Activity: opts.Activity,
		HasMask:  opts.HasMask,
		Mask:     opts.Mask,
		Logger:   *zerolog.Ctx(ctx),
	})
}

// Graph handles POST /v1/routes:graph - build the weighted graph of one route.
func (h *RouteHandler) Graph(w http.ResponseWriter, r *http.Request) {
	var req models.RouteGraphRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cand, errs := req.Validate()
	if rejectInvalid(w, r, errs) {
		return
	}

	cands := []routegraph.Candidate{cand}
	set := models.RouteSet{AirQuality: req.AirQuality, SampleIntervalMeters: req.SampleIntervalMeters}
	sampled, ok := fillSamples(w, r, h.sampler, cands, set)
	if !ok {
		return
	}
	alignSampled(cands, sampled)

	route := h.builder(r.Context(), req.GraphOptions).BuildCandidate(cands[0])
	h.metrics.RecordRoutes(r.Context(), telemetry.EngineRouteGraph, 1, len(sampled))
	h.metrics.RecordScore(r.Context(), telemetry.EngineRouteGraph, route.OverallScore, string(route.Level))

	response.JSON(w, r, http.StatusOK, route)
}

// Compare handles POST /v1/routes:compare - build every candidate's graph and
// pick the safest and fastest.
func (h *RouteHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req models.RouteGraphCompareRequest
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
	alignSampled(cands, sampled)

	cmp, err := h.builder(r.Context(), req.GraphOptions).Compare(r.Context(), cands)
	if !h.handleRankError(w, r, err, "compare route graphs") {
		return
	}

	h.metrics.RecordRoutes(r.Context(), telemetry.EngineRouteGraph, len(cands), len(sampled))
	for _, route := range cmp.Routes {
		h.metrics.RecordScore(r.Context(), telemetry.EngineRouteGraph, route.OverallScore, string(route.Level))
	}

	response.JSON(w, r, http.StatusOK, cmp)
}

// Optimize handles POST /v1/routes:optimize - multi-objective ranking with a
// localized recommendation.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req models.RouteOptimizeRequest
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

	lang := req.Language
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}

	res, err := h.optimizer.OptimizeForSafety(r.Context(), optimizer.Request{
		Routes:   routeCandidates(cands),
		Profile:  req.Profile,
		Activity: req.Activity,
		SpeedKmh: effectiveSpeed(req.SpeedKmh, h.defaultSpeed, cands),
		Language: lang,
	})
	if !h.handleRankError(w, r, err, "optimize routes") {
		return
	}

	h.metrics.RecordRoutes(r.Context(), telemetry.EngineOptimizer, len(cands), len(sampled))
	h.metrics.RecordScore(r.Context(), telemetry.EngineOptimizer, res.Recommended.OverallScore, string(res.Warning))

	response.JSON(w, r, http.StatusOK, res)
}

// handleRankError writes the response for a ranking failure and reports
// whether the handler should continue.
func (h *RouteHandler) handleRankError(w http.ResponseWriter, r *http.Request, err error, op string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, exposure.ErrNoRoutes):
		response.Unprocessable(w, r, "at least one route is required")
	case errors.Is(err, context.Canceled):
		zerolog.Ctx(r.Context()).Info().Str("op", op).Msg("client went away")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("route ranking failed")
		response.InternalError(w, r, "failed to "+op)
	}
	return false
}

// alignSampled makes the graph nodes of interpolated routes the sample
// locations, so node i carries sample i.
func alignSampled(cands []routegraph.Candidate, sampled []int) {
	for _, i := range sampled {
		cands[i].Coordinates = cands[i].SampleLocations
	}
}
