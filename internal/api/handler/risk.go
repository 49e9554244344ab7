package handler

import (
	"net/http"

	"github.com/breatheroute/phri/internal/advisor"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/riskengine"
	"github.com/breatheroute/phri/internal/telemetry"
)

// RiskHandler handles the weighted risk engine and the decisions built on it.
type RiskHandler struct {
	advisor *advisor.Advisor
	metrics *telemetry.ScoringMetrics
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(adv *advisor.Advisor, metrics *telemetry.ScoringMetrics) *RiskHandler {
	if adv == nil {
		adv = advisor.New(advisor.Config{})
	}
	return &RiskHandler{advisor: adv, metrics: metrics}
}

// Compute handles POST /v1/risk:compute - score with recommendations.
func (h *RiskHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req models.RiskRequest
	if !decodeJSON(w, r, &req) || rejectInvalid(w, r, req.Validate()) {
		return
	}

	bd := riskengine.ComputeWithBreakdown(req.AirQuality, req.Profile, req.Travel)
	h.metrics.RecordScore(r.Context(), telemetry.EngineRisk, bd.Total, string(bd.Category))

	response.JSON(w, r, http.StatusOK, bd)
}

// Decide handles POST /v1/decisions - a short go/no-go decision with options.
func (h *RiskHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req models.RiskRequest
	if !decodeJSON(w, r, &req) || rejectInvalid(w, r, req.Validate()) {
		return
	}

	score := riskengine.Compute(req.AirQuality, req.Profile, req.Travel)
	decision := h.advisor.GenerateDecision(advisor.FromRiskScore(score, req.AirQuality, req.Profile, req.Travel, req.Destination))
	h.metrics.RecordScore(r.Context(), telemetry.EngineAdvisor, score.Total, string(decision.Category))

	response.JSON(w, r, http.StatusOK, models.DecisionResponse{Risk: score, Decision: decision})
}
