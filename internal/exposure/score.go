// Package exposure implements the Personal Health Risk Index (PHRI): a 0-100
// score combining pollutant exposure with individual vulnerability, and the
// aggregation of per-sample scores along candidate routes.
package exposure

import (
	"math"

	"github.com/breatheroute/phri/internal/health"
)

// Input describes a single exposure episode.
type Input struct {
	// PM25 concentration in µg/m³. Clamped to [0, 1000].
	PM25 float64 `json:"pm25"`

	// DurationMinutes of the exposure. Negative values are treated as 0.
	DurationMinutes float64 `json:"durationMinutes"`

	Activity health.ActivityLevel `json:"activityLevel"`
	Outdoor  bool                 `json:"isOutdoor"`
	HasMask  bool                 `json:"hasMask"`
	Mask     health.MaskType      `json:"maskType,omitempty"`
}

// Factors is the multiplicative breakdown of a score, each rounded to 2 places.
type Factors struct {
	BaseExposure     float64 `json:"baseExposure"`
	DurationFactor   float64 `json:"durationFactor"`
	ActivityFactor   float64 `json:"activityFactor"`
	DiseaseFactor    float64 `json:"diseaseFactor"`
	AgeFactor        float64 `json:"ageFactor"`
	SmokingModifier  float64 `json:"smokingModifier"`
	ProtectionFactor float64 `json:"protectionFactor"`
}

// Result is a computed PHRI.
type Result struct {
	// Score is the PHRI on 0-100, rounded to one decimal.
	Score float64 `json:"score"`

	// NormalizedScore is Score on a 0-10 scale.
	NormalizedScore float64 `json:"normalizedScore"`

	Level   health.RiskLevel `json:"riskLevel"`
	Label   string           `json:"label"`
	Color   string           `json:"color"`
	Factors Factors          `json:"factors"`

	// DominantFactors names at most three factors driving the score.
	DominantFactors []string `json:"dominantFactors"`

	// Confidence in the estimate (0.3-0.99).
	Confidence float64 `json:"confidence"`
}

// Thresholds above which a factor is reported as dominant.
const (
	dominantBaseExposure = 30.0
	dominantDuration     = 1.2
	dominantActivity     = 2.0
	dominantDisease      = 1.3
	dominantAge          = 1.2
	dominantSmoking      = 1.0
	maxDominantFactors   = 3
)

// ComputeRisk computes the PHRI for an exposure and profile. Out-of-range
// inputs are clamped, unknown categories are neutral; it never fails.
func ComputeRisk(in Input, p health.Profile) Result {
	pm := clampConcentration(in.PM25)
	minutes := math.Max(in.DurationMinutes, 0)
	if math.IsNaN(minutes) {
		minutes = 0
	}

	f := Factors{
		BaseExposure:     BaseExposure(pm),
		DurationFactor:   DurationFactor(minutes),
		ActivityFactor:   ActivityFactor(in.Activity, in.Outdoor),
		DiseaseFactor:    DiseaseFactor(p.Diseases),
		AgeFactor:        AgeFactor(p.ClampedAge()),
		SmokingModifier:  SmokingModifier(p.Smoking),
		ProtectionFactor: ProtectionFactor(in.HasMask, in.Mask),
	}

	raw := f.BaseExposure * f.DurationFactor * f.ActivityFactor * f.DiseaseFactor *
		f.AgeFactor * f.SmokingModifier * f.ProtectionFactor
	score := health.Round(health.Clamp(raw, 0, 100), 1)
	level := health.RiskLevelFromScore(score)

	return Result{
		Score:           score,
		NormalizedScore: health.Round(score/10, 2),
		Level:           level,
		Label:           level.Label(),
		Color:           level.Color(),
		Factors:         f.rounded(),
		DominantFactors: dominantFactors(f),
		Confidence:      confidence(in, p),
	}
}

func (f Factors) rounded() Factors {
	return Factors{
		BaseExposure:     health.Round(f.BaseExposure, 2),
		DurationFactor:   health.Round(f.DurationFactor, 2),
		ActivityFactor:   health.Round(f.ActivityFactor, 2),
		DiseaseFactor:    health.Round(f.DiseaseFactor, 2),
		AgeFactor:        health.Round(f.AgeFactor, 2),
		SmokingModifier:  health.Round(f.SmokingModifier, 2),
		ProtectionFactor: health.Round(f.ProtectionFactor, 2),
	}
}

func dominantFactors(f Factors) []string {
	candidates := []struct {
		hit   bool
		label string
	}{
		{f.BaseExposure > dominantBaseExposure, "High pollutant concentration"},
		{f.DurationFactor > dominantDuration, "Prolonged exposure"},
		{f.ActivityFactor > dominantActivity, "Elevated breathing rate"},
		{f.DiseaseFactor > dominantDisease, "Pre-existing health conditions"},
		{f.AgeFactor > dominantAge, "Age-related sensitivity"},
		{f.SmokingModifier > dominantSmoking, "Smoking history"},
	}

	out := make([]string, 0, maxDominantFactors)
	for _, c := range candidates {
		if c.hit {
			out = append(out, c.label)
			if len(out) == maxDominantFactors {
				break
			}
		}
	}
	return out
}

// confidence starts from a baseline, drops for extreme or implausible inputs
// and rises for richly specified profiles.
func confidence(in Input, p health.Profile) float64 {
	c := 0.8

	if in.PM25 > saturationConcentration {
		c -= 0.15
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > 480 {
		c -= 0.1
	}
	if p.Age < 1 || p.Age > 100 {
		c -= 0.05
	}

	if len(p.Diseases) > 0 {
		c += 0.05
	}
	if p.LungFunctionPct != nil {
		c += 0.05
	}
	if p.Smoking != "" {
		c += 0.03
	}
	if in.HasMask && in.Mask != "" {
		c += 0.02
	}

	return health.Round(health.Clamp(c, 0.3, 0.99), 2)
}
