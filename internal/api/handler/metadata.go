package handler

import (
	"net/http"

	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/fusion"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/optimizer"
	"github.com/breatheroute/phri/internal/riskengine"
	"github.com/breatheroute/phri/internal/routegraph"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	enums models.Enums
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{enums: models.Enums{
		Diseases:          health.AllDiseases(),
		MaskTypes:         health.AllMaskTypes(),
		ActivityLevels:    health.AllActivityLevels(),
		WeatherConditions: health.AllWeatherConditions(),
		RiskLevels:        health.AllRiskLevels(),
		Categories:        riskengine.AllCategories(),
		TravelModes:       riskengine.AllTravelModes(),
		ActivityModes:     fusion.AllActivityModes(),
		RoadTypes:         routegraph.AllRoadTypes(),
		TrafficLevels:     routegraph.AllTrafficLevels(),
		WarningLevels:     optimizer.AllWarningLevels(),
		Languages:         optimizer.SupportedLanguages(),
	}}
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.enums)
}
