// Package optimizer ranks route candidates on a blended health and
// convenience objective and explains the winner in English or Vietnamese.
package optimizer

import (
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
)

// WarningLevel is the advisory tier of the recommended route.
type WarningLevel string

const (
	WarningNone    WarningLevel = "none"
	WarningCaution WarningLevel = "caution"
	WarningWarning WarningLevel = "warning"
	WarningDanger  WarningLevel = "danger"
)

// AllWarningLevels returns every warning level, mildest first.
func AllWarningLevels() []WarningLevel {
	return []WarningLevel{WarningNone, WarningCaution, WarningWarning, WarningDanger}
}

// DataQuality grades the samples behind a route score.
type DataQuality string

const (
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
	QualityLow    DataQuality = "low"
)

// Request is one optimisation call.
type Request struct {
	Routes   []exposure.RouteCandidate `json:"routes"`
	Profile  health.Profile            `json:"profile"`
	Activity health.ActivityLevel      `json:"activityLevel"`

	// SpeedKmh derives trip time from distance; 0 uses each route's duration.
	SpeedKmh float64 `json:"travelSpeedKmh"`

	// Language is a BCP 47 tag or Accept-Language value.
	Language string `json:"language,omitempty"`
}

// RouteScore is the multi-objective score of one candidate.
type RouteScore struct {
	RouteIndex int `json:"routeIndex"`
	Rank       int `json:"rank"`

	AverageConcentration float64 `json:"averageConcentration"`
	PeakConcentration    float64 `json:"peakConcentration"`
	AveragePHRI          float64 `json:"averagePHRI"`
	PeakPHRI             float64 `json:"peakPHRI"`
	PHRIVariance         float64 `json:"phriVariance"`

	// HealthScore, ConvenienceScore and OverallScore are 0-100, lower is better.
	HealthScore      float64 `json:"healthScore"`
	ConvenienceScore float64 `json:"convenienceScore"`
	OverallScore     float64 `json:"overallScore"`

	DurationMinutes float64     `json:"durationMinutes"`
	DistanceKm      float64     `json:"distanceKm"`
	ValidFraction   float64     `json:"validSampleFraction"`
	DataQuality     DataQuality `json:"dataQuality"`
}

// TradeOff compares the recommended route with the fastest one.
type TradeOff struct {
	HealthBenefitPct float64 `json:"healthBenefitPct"`
	ExtraMinutes     float64 `json:"extraMinutes"`
	ExtraDistanceKm  float64 `json:"extraDistanceKm"`
}

// Result is the ranked outcome.
type Result struct {
	// Routes are ordered by rank.
	Routes       []RouteScore `json:"routes"`
	Recommended  RouteScore   `json:"recommended"`
	Warning      WarningLevel `json:"warningLevel"`
	DecisionText string       `json:"decisionText"`
	Language     string       `json:"language"`
	TradeOff     TradeOff     `json:"tradeOff"`
}
