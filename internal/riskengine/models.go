// Package riskengine is the deterministic weighted risk engine behind the
// travel-context screens. It is simpler than the PHRI core: a base exposure
// index scaled by vulnerability, travel mode and duration lookups.
package riskengine

import "github.com/breatheroute/phri/internal/health"

// Category is the engine's risk bucket.
type Category string

const (
	CategoryLow      Category = "LOW"
	CategoryModerate Category = "MODERATE"
	CategoryHigh     Category = "HIGH"
	CategorySevere   Category = "SEVERE"
)

// AllCategories returns every category from least to most severe.
func AllCategories() []Category {
	return []Category{CategoryLow, CategoryModerate, CategoryHigh, CategorySevere}
}

// CategoryFromScore maps a 0-100 total onto a category (<=25 low, <=50 moderate,
// <=75 high, else severe).
func CategoryFromScore(total float64) Category {
	switch {
	case total <= 25:
		return CategoryLow
	case total <= 50:
		return CategoryModerate
	case total <= 75:
		return CategoryHigh
	default:
		return CategorySevere
	}
}

// Sensitivity is a user's self-reported sensitivity to air pollution.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityNormal Sensitivity = "normal"
	SensitivityHigh   Sensitivity = "high"
)

// TravelMode is how the user travels.
type TravelMode string

const (
	ModeWalking    TravelMode = "walking"
	ModeCycling    TravelMode = "cycling"
	ModeMotorcycle TravelMode = "motorcycle"
	ModeCar        TravelMode = "car"
	ModeBus        TravelMode = "bus"
	ModeMetro      TravelMode = "metro"
	ModeStationary TravelMode = "stationary"
)

// AllTravelModes returns every supported travel mode.
func AllTravelModes() []TravelMode {
	return []TravelMode{ModeWalking, ModeCycling, ModeMotorcycle, ModeCar, ModeBus, ModeMetro, ModeStationary}
}

// AirQuality is the engine's view of a reading.
type AirQuality struct {
	// PM25 in µg/m³; values outside 0-1000 are treated as 0.
	PM25 float64 `json:"pm25"`

	// AQI in 0-500; values outside the range are treated as 0. When absent the
	// PM2.5 term carries the full weight.
	AQI *float64 `json:"aqi,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// FromReading adapts a shared reading.
func FromReading(r health.Reading) AirQuality {
	return AirQuality{PM25: r.PM25, AQI: r.AQI, Temperature: r.Temperature, Humidity: r.Humidity}
}

// Profile adds the engine-specific vulnerability inputs to a health profile.
type Profile struct {
	health.Profile

	Sensitivity Sensitivity     `json:"sensitivity,omitempty"`
	Mask        health.MaskType `json:"maskType,omitempty"`
}

// Travel describes the planned trip.
type Travel struct {
	Mode            TravelMode `json:"mode"`
	DurationMinutes float64    `json:"durationMinutes"`
}

// Components holds the intermediate terms of a score.
type Components struct {
	BaseExposure      float64 `json:"baseExposure"`
	WeatherMultiplier float64 `json:"weatherMultiplier"`
	Vulnerability     float64 `json:"vulnerability"`
	TravelModifier    float64 `json:"travelModifier"`
	DurationModifier  float64 `json:"durationModifier"`
}

// RiskScore is the engine output.
type RiskScore struct {
	// Total is the 0-100 score, rounded to one decimal.
	Total      float64    `json:"total"`
	Category   Category   `json:"category"`
	Components Components `json:"components"`
}

// Breakdown is a RiskScore with qualitative recommendations.
type Breakdown struct {
	RiskScore

	Recommendations []string `json:"recommendations"`
}
