// Package handler provides HTTP handlers for the PHRI API.
package handler

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	started   time.Time
	draining  atomic.Bool
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		started:   time.Now(),
	}
}

// SetDraining marks the instance as shutting down so readiness fails and the
// load balancer stops routing new requests to it.
func (h *OpsHandler) SetDraining() {
	h.draining.Store(true)
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":       h.version,
			"buildTime":     h.buildTime,
			"uptimeSeconds": int64(time.Since(h.started).Seconds()),
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The scoring
// engines are in-process, so the only failure mode is draining.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.draining.Load() {
		response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
			Status:  models.HealthStatusFail,
			Time:    models.Timestamp(time.Now()),
			Details: map[string]interface{}{"reason": "draining"},
		})
		return
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	})
}
