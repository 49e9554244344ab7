package riskengine

import (
	"math"
	"sort"

	"github.com/breatheroute/phri/internal/health"
)

// Weights of the two air quality terms in the base exposure index.
const (
	weightPM25 = 0.7
	weightAQI  = 0.3

	maxPM25 = 1000.0
	maxAQI  = 500.0

	// secondaryConditionShare is the fraction of each secondary condition's
	// excess over 1.0 that is added to the primary condition.
	secondaryConditionShare = 0.3
)

var conditionModifiers = map[health.Disease]float64{
	health.DiseaseAsthma:            1.4,
	health.DiseaseCOPD:              1.5,
	health.DiseaseCardiovascular:    1.3,
	health.DiseaseDiabetes:          1.15,
	health.DiseaseElderly:           1.2,
	health.DiseaseChild:             1.2,
	health.DiseasePregnant:          1.25,
	health.DiseaseImmunocompromised: 1.2,
	health.DiseaseGeneral:           1.0,
}

var sensitivityFactors = map[Sensitivity]float64{
	SensitivityLow:    0.9,
	SensitivityNormal: 1.0,
	SensitivityHigh:   1.2,
}

// maskFactors account for fit leakage, so they are milder than lab filtration.
var maskFactors = map[health.MaskType]float64{
	health.MaskN95:      0.5,
	health.MaskSurgical: 0.8,
	health.MaskCloth:    0.9,
	health.MaskNone:     1.0,
}

var travelModifiers = map[TravelMode]float64{
	ModeWalking:    1.0,
	ModeCycling:    1.3,
	ModeMotorcycle: 1.2,
	ModeCar:        0.5,
	ModeBus:        0.7,
	ModeMetro:      0.4,
	ModeStationary: 0.9,
}

// Compute scores an air quality reading for a profile and trip. Invalid
// numeric input is treated as zero; unknown categories are neutral.
func Compute(aq AirQuality, p Profile, t Travel) RiskScore {
	c := Components{
		BaseExposure:      BaseExposure(aq),
		WeatherMultiplier: WeatherMultiplier(aq),
		Vulnerability:     Vulnerability(p),
		TravelModifier:    TravelModifier(t.Mode),
		DurationModifier:  DurationModifier(t.DurationMinutes),
	}

	base := health.Clamp(c.BaseExposure*c.WeatherMultiplier, 0, 100)
	total := health.Round(health.Clamp(base*c.Vulnerability*c.TravelModifier*c.DurationModifier, 0, 100), 1)

	return RiskScore{
		Total:    total,
		Category: CategoryFromScore(total),
		Components: Components{
			BaseExposure:      health.Round(c.BaseExposure, 2),
			WeatherMultiplier: c.WeatherMultiplier,
			Vulnerability:     health.Round(c.Vulnerability, 3),
			TravelModifier:    c.TravelModifier,
			DurationModifier:  c.DurationModifier,
		},
	}
}

// ComputeWithBreakdown is Compute plus recommendations for the category and profile.
func ComputeWithBreakdown(aq AirQuality, p Profile, t Travel) Breakdown {
	score := Compute(aq, p, t)
	return Breakdown{
		RiskScore:       score,
		Recommendations: recommendations(score.Category, p, t),
	}
}

// BaseExposure is the weighted PM2.5/AQI index on 0-100.
func BaseExposure(aq AirQuality) float64 {
	pm := validOrZero(aq.PM25, maxPM25)
	pmTerm := pm / 500 * 100

	if aq.AQI == nil {
		return health.Clamp(pmTerm, 0, 100)
	}
	aqi := validOrZero(*aq.AQI, maxAQI)
	return health.Clamp(pmTerm*weightPM25+aqi/500*100*weightAQI, 0, 100)
}

// WeatherMultiplier is 1.10 for hot and dry air, 0.95 for cool and humid air.
func WeatherMultiplier(aq AirQuality) float64 {
	r := health.Reading{Temperature: aq.Temperature, Humidity: aq.Humidity}
	switch {
	case r.HotAndDry(30, 40):
		return 1.10
	case r.CoolAndHumid(15, 70):
		return 0.95
	default:
		return 1.0
	}
}

// Vulnerability multiplies age, combined conditions, sensitivity and mask factors.
func Vulnerability(p Profile) float64 {
	return ageBracketFactor(p.ClampedAge()) *
		ConditionFactor(p.Diseases) *
		lookup(sensitivityFactors, p.Sensitivity) *
		MaskFactor(p.Mask)
}

// ConditionFactor combines condition modifiers with diminishing returns: the
// strongest counts in full, each further condition adds 30% of its excess.
func ConditionFactor(diseases []health.Disease) float64 {
	unique := health.Profile{Diseases: diseases}.UniqueDiseases()
	if len(unique) == 0 {
		return 1.0
	}

	mods := make([]float64, len(unique))
	for i, d := range unique {
		mods[i] = lookup(conditionModifiers, d)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(mods)))

	combined := mods[0]
	for _, m := range mods[1:] {
		combined += secondaryConditionShare * (m - 1)
	}
	return combined
}

// TravelModifier returns the exposure modifier for a mode, 1.0 if unknown.
func TravelModifier(mode TravelMode) float64 {
	return lookup(travelModifiers, mode)
}

// MaskFactor returns the residual exposure factor for a mask, 1.0 if unknown.
func MaskFactor(mask health.MaskType) float64 {
	return lookup(maskFactors, mask)
}

// DurationModifier returns the modifier for the trip length.
func DurationModifier(minutes float64) float64 {
	switch {
	case math.IsNaN(minutes) || minutes < 15:
		return 0.8
	case minutes < 30:
		return 1.0
	case minutes < 60:
		return 1.15
	case minutes < 120:
		return 1.3
	default:
		return 1.5
	}
}

func ageBracketFactor(age int) float64 {
	switch {
	case age <= 5:
		return 1.4
	case age <= 12:
		return 1.25
	case age <= 18:
		return 1.1
	case age < 65:
		return 1.0
	case age < 75:
		return 1.2
	default:
		return 1.35
	}
}

func validOrZero(v, hi float64) float64 {
	if math.IsNaN(v) || v < 0 || v > hi {
		return 0
	}
	return v
}

func lookup[K comparable](table map[K]float64, key K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return 1.0
}
