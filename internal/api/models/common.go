// Package models provides request and response models for the PHRI API.
package models

import (
	"fmt"
	"time"

	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

// Request size limits.
const (
	MaxRoutes      = 10
	MaxRoutePoints = 5000
)

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	parsed, err := time.Parse(time.RFC3339, string(data[1:len(data)-1]))
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func validateProfile(field string, p health.Profile) []FieldError {
	var errs []FieldError
	for i, d := range p.Diseases {
		if !d.Valid() {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("%s.diseases[%d]", field, i),
				Message: fmt.Sprintf("unknown disease %q", d),
				Code:    CodeUnknown,
			})
		}
	}
	return errs
}

func validateCoordinates(field string, coords []geo.Coordinate) []FieldError {
	if len(coords) > MaxRoutePoints {
		return []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("at most %d points are accepted", MaxRoutePoints),
			Code:    CodeTooMany,
		}}
	}
	var errs []FieldError
	for i, c := range coords {
		if err := c.Validate(); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: err.Error(),
				Code:    CodeOutOfRange,
			})
		}
	}
	return errs
}
