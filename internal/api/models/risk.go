package models

import (
	"github.com/breatheroute/phri/internal/advisor"
	"github.com/breatheroute/phri/internal/riskengine"
)

// RiskRequest is the body of POST /v1/risk:compute and POST /v1/decisions.
type RiskRequest struct {
	AirQuality riskengine.AirQuality `json:"airQuality"`
	Profile    riskengine.Profile    `json:"profile"`
	Travel     riskengine.Travel     `json:"travel"`

	// Destination is only used by the decision endpoint.
	Destination string `json:"destination,omitempty"`
}

// Validate checks the request.
func (r RiskRequest) Validate() []FieldError {
	return validateProfile("profile", r.Profile.Profile)
}

// DecisionResponse pairs the engine score with the advisor's decision.
type DecisionResponse struct {
	Risk     riskengine.RiskScore `json:"risk"`
	Decision advisor.Decision     `json:"decision"`
}
