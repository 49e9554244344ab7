package models

import (
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
)

// ExposureScoreRequest is the body of POST /v1/exposure:score.
type ExposureScoreRequest struct {
	Exposure exposure.Input `json:"exposure"`
	Profile  health.Profile `json:"profile"`
}

// Validate checks the request. Out-of-range numbers are not errors; the
// scoring core clamps them.
func (r ExposureScoreRequest) Validate() []FieldError {
	return validateProfile("profile", r.Profile)
}
