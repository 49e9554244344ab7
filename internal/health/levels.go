package health

// RiskLevel is the categorical bucket of a 0-100 PHRI score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskSevere   RiskLevel = "severe"
)

// AllRiskLevels returns every level from least to most severe.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskSevere}
}

// Risk level boundaries. A score below the bound belongs to the lower level.
const (
	ModerateThreshold = 25.0
	HighThreshold     = 50.0
	SevereThreshold   = 75.0
)

// RiskLevelFromScore maps a 0-100 score onto a RiskLevel (<25 low, <50 moderate,
// <75 high, else severe).
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < ModerateThreshold:
		return RiskLow
	case score < HighThreshold:
		return RiskModerate
	case score < SevereThreshold:
		return RiskHigh
	default:
		return RiskSevere
	}
}

// Label returns a human-readable label for the level.
func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "Low risk"
	case RiskModerate:
		return "Moderate risk"
	case RiskHigh:
		return "High risk"
	case RiskSevere:
		return "Severe risk"
	default:
		return "Unknown risk"
	}
}

// Color returns the map colour band for the level.
func (l RiskLevel) Color() string {
	switch l {
	case RiskLow:
		return "green"
	case RiskModerate:
		return "yellow"
	case RiskHigh:
		return "orange"
	case RiskSevere:
		return "red"
	default:
		return "gray"
	}
}

// AtLeastHigh reports whether the level is high or severe.
func (l RiskLevel) AtLeastHigh() bool {
	return l == RiskHigh || l == RiskSevere
}
