// Package health defines the closed vocabularies and value objects shared by
// the risk models: disease categories, smoking status, masks, activity levels,
// risk levels, user profiles and air quality readings.
package health

import "math"

// Disease is a chronic condition or vulnerable group that raises sensitivity
// to particulate exposure. Conditions are non-exclusive.
type Disease string

const (
	DiseaseAsthma            Disease = "asthma"
	DiseaseCOPD              Disease = "copd"
	DiseaseCardiovascular    Disease = "cardiovascular"
	DiseaseDiabetes          Disease = "diabetes"
	DiseaseElderly           Disease = "elderly"
	DiseaseChild             Disease = "child"
	DiseasePregnant          Disease = "pregnant"
	DiseaseImmunocompromised Disease = "immunocompromised"
	DiseaseGeneral           Disease = "general"
)

// AllDiseases returns every supported disease category.
// Lookup tables keyed by Disease must cover each of these.
func AllDiseases() []Disease {
	return []Disease{
		DiseaseAsthma,
		DiseaseCOPD,
		DiseaseCardiovascular,
		DiseaseDiabetes,
		DiseaseElderly,
		DiseaseChild,
		DiseasePregnant,
		DiseaseImmunocompromised,
		DiseaseGeneral,
	}
}

// Valid reports whether d is a known category.
func (d Disease) Valid() bool {
	for _, known := range AllDiseases() {
		if d == known {
			return true
		}
	}
	return false
}

// Respiratory reports whether d primarily affects the airways.
func (d Disease) Respiratory() bool {
	return d == DiseaseAsthma || d == DiseaseCOPD
}

// SmokingStatus is a user's smoking history.
type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

// MaskType is the respiratory protection worn during exposure.
type MaskType string

const (
	MaskN95      MaskType = "n95"
	MaskSurgical MaskType = "surgical"
	MaskCloth    MaskType = "cloth"
	MaskNone     MaskType = "none"
)

// AllMaskTypes returns every supported mask type.
func AllMaskTypes() []MaskType {
	return []MaskType{MaskN95, MaskSurgical, MaskCloth, MaskNone}
}

// ActivityLevel is the physical intensity during exposure. Higher intensity
// means higher minute ventilation and therefore a larger inhaled dose.
type ActivityLevel string

const (
	ActivityRest     ActivityLevel = "rest"
	ActivityLight    ActivityLevel = "light"
	ActivityModerate ActivityLevel = "moderate"
	ActivityVigorous ActivityLevel = "vigorous"
)

// AllActivityLevels returns every supported activity level.
func AllActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivityRest, ActivityLight, ActivityModerate, ActivityVigorous}
}

// Profile is a user's health profile. It is created and edited outside the
// risk models and only ever read by them.
type Profile struct {
	// Age in years (0-120).
	Age int `json:"age"`

	// Diseases may be empty; duplicates are ignored.
	Diseases []Disease `json:"diseases,omitempty"`

	Smoking SmokingStatus `json:"smokingStatus,omitempty"`

	// LungFunctionPct is the baseline FEV1 as a percentage of predicted, if known.
	LungFunctionPct *float64 `json:"lungFunctionPct,omitempty"`
}

// ClampedAge returns the age bounded to 0-120.
func (p Profile) ClampedAge() int {
	switch {
	case p.Age < 0:
		return 0
	case p.Age > 120:
		return 120
	default:
		return p.Age
	}
}

// UniqueDiseases returns the profile's conditions with duplicates removed,
// preserving first-seen order.
func (p Profile) UniqueDiseases() []Disease {
	if len(p.Diseases) == 0 {
		return nil
	}
	seen := make(map[Disease]struct{}, len(p.Diseases))
	out := make([]Disease, 0, len(p.Diseases))
	for _, d := range p.Diseases {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Has reports whether the profile lists d.
func (p Profile) Has(d Disease) bool {
	for _, x := range p.Diseases {
		if x == d {
			return true
		}
	}
	return false
}

// HasRespiratoryDisease reports whether any listed condition is respiratory.
func (p Profile) HasRespiratoryDisease() bool {
	for _, d := range p.Diseases {
		if d.Respiratory() {
			return true
		}
	}
	return false
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
