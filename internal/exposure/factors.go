package exposure

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/breatheroute/phri/internal/health"
)

// Domain bounds.
const (
	// MaxConcentration is the hard ceiling applied to PM2.5 input (µg/m³).
	MaxConcentration = 1000.0

	// saturationConcentration is the concentration at which base exposure reaches 100.
	saturationConcentration = 500.0

	// MaxDiseaseFactor caps the combined disease multiplier.
	MaxDiseaseFactor = 3.0

	// MaxDurationFactor caps the duration multiplier for very long exposures.
	MaxDurationFactor = 1.5

	// indoorActivityFactor replaces the intensity multiplier for indoor exposure.
	indoorActivityFactor = 0.3

	// comorbidityStep is the linear bonus per additional condition.
	comorbidityStep = 0.1
)

// diseaseCoefficients are relative PM2.5 sensitivities per condition.
var diseaseCoefficients = map[health.Disease]float64{
	health.DiseaseAsthma:            1.6,
	health.DiseaseCOPD:              1.8,
	health.DiseaseCardiovascular:    1.5,
	health.DiseaseDiabetes:          1.2,
	health.DiseaseElderly:           1.3,
	health.DiseaseChild:             1.4,
	health.DiseasePregnant:          1.3,
	health.DiseaseImmunocompromised: 1.25,
	health.DiseaseGeneral:           1.0,
}

// activityMultipliers scale outdoor exposure by minute ventilation.
var activityMultipliers = map[health.ActivityLevel]float64{
	health.ActivityRest:     1.0,
	health.ActivityLight:    2.5,
	health.ActivityModerate: 5.0,
	health.ActivityVigorous: 10.0,
}

// maskResiduals are the fraction of particles that pass each mask type.
var maskResiduals = map[health.MaskType]float64{
	health.MaskN95:      0.05,
	health.MaskSurgical: 0.40,
	health.MaskCloth:    0.70,
	health.MaskNone:     1.0,
}

var smokingModifiers = map[health.SmokingStatus]float64{
	health.SmokingNever:   1.0,
	health.SmokingFormer:  1.1,
	health.SmokingCurrent: 1.3,
}

// BaseExposure maps a concentration onto 0-100, saturating at 500 µg/m³.
func BaseExposure(pm float64) float64 {
	return math.Min(clampConcentration(pm)/saturationConcentration*100, 100)
}

// DurationFactor discounts short exposures and saturates long ones:
//
//	(0, 15]    0.5 -> 0.8 linear
//	(15, 60]   0.8 + 0.2*(1 - e^-(m-15)/75), about 0.89 at 60
//	(60, 180]  linear from the 60 minute value to 1.3
//	> 180      1.3 + 0.2*(m-180)/180, capped at 1.5
//
// Zero or negative durations yield 0.
func DurationFactor(minutes float64) float64 {
	switch {
	case math.IsNaN(minutes) || minutes <= 0:
		return 0
	case minutes <= 15:
		return 0.5 + 0.3*minutes/15
	case minutes <= 60:
		return 0.8 + 0.2*(1-math.Exp(-(minutes-15)/75))
	case minutes <= 180:
		start := DurationFactor(60)
		return start + (1.3-start)*(minutes-60)/120
	default:
		return math.Min(1.3+0.2*(minutes-180)/180, MaxDurationFactor)
	}
}

// ActivityFactor returns the ventilation multiplier. Indoor exposure is fixed
// at 0.3; unknown outdoor levels are neutral.
func ActivityFactor(level health.ActivityLevel, outdoor bool) float64 {
	if !outdoor {
		return indoorActivityFactor
	}
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return 1.0
}

// DiseaseCoefficient returns the sensitivity coefficient for d, 1.0 if unknown.
func DiseaseCoefficient(d health.Disease) float64 {
	if c, ok := diseaseCoefficients[d]; ok {
		return c
	}
	return 1.0
}

// DiseaseFactor combines conditions as the geometric mean of their coefficients
// times a comorbidity bonus of 1 + 0.1*(k-1), capped at 3.0.
//
// The mean is taken over the k most sensitizing conditions, with k chosen to
// maximise the result, so a mild condition never dilutes a severe one and the
// factor never decreases as conditions are added.
func DiseaseFactor(diseases []health.Disease) float64 {
	unique := health.Profile{Diseases: diseases}.UniqueDiseases()
	if len(unique) == 0 {
		return 1.0
	}

	coefs := make([]float64, len(unique))
	for i, d := range unique {
		coefs[i] = DiseaseCoefficient(d)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(coefs)))

	best := 1.0
	for k := 1; k <= len(coefs); k++ {
		f := stat.GeometricMean(coefs[:k], nil) * (1 + comorbidityStep*float64(k-1))
		if f > best {
			best = f
		}
	}
	return math.Min(best, MaxDiseaseFactor)
}

// AgeFactor is a step function over age brackets.
func AgeFactor(age int) float64 {
	switch {
	case age <= 5:
		return 1.5
	case age <= 12:
		return 1.3
	case age <= 18:
		return 1.1
	case age <= 65:
		return 1.0
	case age <= 75:
		return 1.3
	default:
		return 1.5
	}
}

// SmokingModifier returns the multiplier for a smoking history, 1.0 if unknown.
func SmokingModifier(s health.SmokingStatus) float64 {
	if m, ok := smokingModifiers[s]; ok {
		return m
	}
	return 1.0
}

// ProtectionFactor returns the fraction of exposure that passes the mask.
func ProtectionFactor(hasMask bool, mask health.MaskType) float64 {
	if !hasMask {
		return 1.0
	}
	if r, ok := maskResiduals[mask]; ok {
		return r
	}
	return 1.0
}

func clampConcentration(pm float64) float64 {
	return health.Clamp(pm, 0, MaxConcentration)
}
