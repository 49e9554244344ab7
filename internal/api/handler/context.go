package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/fusion"
	"github.com/breatheroute/phri/internal/telemetry"
)

// ContextHandler handles context fusion.
type ContextHandler struct {
	metrics *telemetry.ScoringMetrics
	now     func() time.Time
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(metrics *telemetry.ScoringMetrics) *ContextHandler {
	return &ContextHandler{metrics: metrics, now: time.Now}
}

// Fuse handles POST /v1/context:fuse - combine environment, location,
// activity and user state into a decision.
func (h *ContextHandler) Fuse(w http.ResponseWriter, r *http.Request) {
	var req models.ContextFuseRequest
	if !decodeJSON(w, r, &req) || rejectInvalid(w, r, req.Validate()) {
		return
	}
	if req.Environment.ObservedAt.IsZero() {
		req.Environment.ObservedAt = h.now()
	}

	fused := fusion.Fuse(req.Environment, req.Location, req.Activity, req.User)
	h.metrics.RecordScore(r.Context(), telemetry.EngineFusion, fused.Score, string(fused.Level))

	zerolog.Ctx(r.Context()).Debug().
		Float64("score", fused.Score).
		Str("level", string(fused.Level)).
		Float64("context_multiplier", fused.ContextMultiplier).
		Msg("fused exposure context")

	response.JSON(w, r, http.StatusOK, fused)
}
