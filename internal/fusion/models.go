// Package fusion reconciles who is exposed, where, doing what and for how long
// into a single effective concentration and context multiplier, then scores it
// with the PHRI core.
package fusion

import (
	"time"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
)

// ActivityMode is how the user is moving (or not) during exposure.
type ActivityMode string

const (
	ModeWalking    ActivityMode = "walking"
	ModeCycling    ActivityMode = "cycling"
	ModeMotorcycle ActivityMode = "motorcycle"
	ModeCar        ActivityMode = "car"
	ModeBus        ActivityMode = "bus"
	ModeSkytrain   ActivityMode = "skytrain"
	ModeMetro      ActivityMode = "metro"
	ModeStationary ActivityMode = "stationary"
)

// AllActivityModes returns every supported activity mode.
func AllActivityModes() []ActivityMode {
	return []ActivityMode{
		ModeWalking, ModeCycling, ModeMotorcycle, ModeCar,
		ModeBus, ModeSkytrain, ModeMetro, ModeStationary,
	}
}

// LocationType is the kind of space the user is in.
type LocationType string

const (
	LocationOutdoor LocationType = "outdoor"
	LocationIndoor  LocationType = "indoor"
	LocationTransit LocationType = "transit"
	LocationVehicle LocationType = "vehicle"
)

// AreaType is the land use around the user.
type AreaType string

const (
	AreaIndustrial  AreaType = "industrial"
	AreaRoadside    AreaType = "roadside"
	AreaUrban       AreaType = "urban"
	AreaResidential AreaType = "residential"
	AreaSuburban    AreaType = "suburban"
	AreaPark        AreaType = "park"
	AreaRural       AreaType = "rural"
)

// Ventilation is the user's breathing-rate class.
type Ventilation string

const (
	VentilationLow      Ventilation = "low"
	VentilationModerate Ventilation = "moderate"
	VentilationHigh     Ventilation = "high"
)

// DecisionLevel is the advisory bucket of a fused score.
type DecisionLevel string

const (
	LevelSafe    DecisionLevel = "safe"
	LevelCaution DecisionLevel = "caution"
	LevelWarning DecisionLevel = "warning"
	LevelDanger  DecisionLevel = "danger"
)

// LevelFromScore buckets a score at 25/50/75.
func LevelFromScore(score float64) DecisionLevel {
	switch health.RiskLevelFromScore(score) {
	case health.RiskLow:
		return LevelSafe
	case health.RiskModerate:
		return LevelCaution
	case health.RiskHigh:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// Feasibility is how easy a mitigation is to adopt.
type Feasibility string

const (
	FeasibilityHigh   Feasibility = "high"
	FeasibilityMedium Feasibility = "medium"
	FeasibilityLow    Feasibility = "low"
)

// Environment is the ambient air and weather at the time of exposure.
type Environment struct {
	health.Reading

	// ObservedAt is the local time of the reading; its hour drives safe-window
	// selection. Zero means no safe window is suggested.
	ObservedAt time.Time `json:"observedAt"`
}

// Location describes where the exposure happens.
type Location struct {
	Type          LocationType `json:"type"`
	Area          AreaType     `json:"area,omitempty"`
	NearbySources []string     `json:"nearbySources,omitempty"`
}

// Activity describes what the user is doing.
type Activity struct {
	Mode            ActivityMode `json:"mode"`
	DurationMinutes float64      `json:"durationMinutes"`

	// Intensity defaults from Mode when empty.
	Intensity   health.ActivityLevel `json:"intensity,omitempty"`
	Exercising  bool                 `json:"exercising"`
	Ventilation Ventilation          `json:"ventilation,omitempty"`
}

// User is the exposed person.
type User struct {
	Profile health.Profile  `json:"profile"`
	HasMask bool            `json:"hasMask"`
	Mask    health.MaskType `json:"maskType,omitempty"`

	// CumulativeExposureHours spent outdoors in polluted air over the last 24 hours.
	CumulativeExposureHours float64  `json:"cumulativeExposureHours"`
	Symptoms                []string `json:"symptoms,omitempty"`
}

// Option is a ranked mitigation.
type Option struct {
	Action           string      `json:"action"`
	Description      string      `json:"description"`
	RiskReductionPct float64     `json:"riskReductionPct"`
	Feasibility      Feasibility `json:"feasibility"`
}

// TimeWindow is a suggested period with lower expected exposure.
type TimeWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}

// Context is the fused assessment.
type Context struct {
	RawConcentration       float64 `json:"rawConcentration"`
	EffectiveConcentration float64 `json:"effectiveConcentration"`

	// EnvironmentMultiplier is EffectiveConcentration / RawConcentration.
	EnvironmentMultiplier float64 `json:"environmentMultiplier"`
	ContextMultiplier     float64 `json:"contextMultiplier"`

	Score float64         `json:"score"`
	Level DecisionLevel   `json:"level"`
	Risk  exposure.Result `json:"risk"`

	DecisionText    string      `json:"decisionText"`
	SupportingFacts []string    `json:"supportingFacts"`
	Options         []Option    `json:"options"`
	SafeWindow      *TimeWindow `json:"safeWindow,omitempty"`
}
