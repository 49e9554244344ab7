// Package advisor turns a risk category into a short reproducible decision
// sentence and a handful of actionable options.
package advisor

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/riskengine"
)

// DefaultMaxChars bounds decision text when no budget is configured.
const DefaultMaxChars = 140

const (
	// indoorResidual is the share of outdoor exposure left indoors with windows closed.
	indoorResidual = 0.3

	// postponeResidual is the typical share left when travelling off-peak.
	postponeResidual = 0.7

	maxOptions = 4
)

// Action is a recommended course of action.
type Action string

const (
	ActionProceed               Action = "proceed"
	ActionProceedWithMitigation Action = "proceed_with_mitigation"
	ActionModeSwitch            Action = "mode_switch"
	ActionPostpone              Action = "postpone"
	ActionStayIndoor            Action = "stay_indoor"
	ActionEmergencyContact      Action = "emergency_contact"
)

// Input is the minimal context needed for a decision.
type Input struct {
	Score       float64               `json:"score"`
	Category    riskengine.Category   `json:"category"`
	PM25        float64               `json:"pm25"`
	Profile     riskengine.Profile    `json:"profile"`
	Mode        riskengine.TravelMode `json:"travelMode"`
	Destination string                `json:"destination,omitempty"`
}

// Option is one actionable choice.
type Option struct {
	Action Action `json:"action"`
	Label  string `json:"label"`

	// RiskDelta is the expected change in score points; negative is better.
	RiskDelta float64 `json:"riskDelta"`
}

// Decision is the advisor's output.
type Decision struct {
	Category riskengine.Category `json:"category"`
	Text     string              `json:"text"`
	Options  []Option            `json:"options"`
}

// Config holds configuration for an Advisor.
type Config struct {
	// MaxChars is the decision text budget (default: 140).
	MaxChars int
}

// Advisor generates decisions. It is safe for concurrent use.
type Advisor struct {
	maxChars int
}

// New creates an Advisor.
func New(cfg Config) *Advisor {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	return &Advisor{maxChars: cfg.MaxChars}
}

// FromRiskScore adapts an engine score and its inputs into advisor input.
func FromRiskScore(score riskengine.RiskScore, aq riskengine.AirQuality, p riskengine.Profile, t riskengine.Travel, destination string) Input {
	return Input{
		Score:       score.Total,
		Category:    score.Category,
		PM25:        aq.PM25,
		Profile:     p,
		Mode:        t.Mode,
		Destination: destination,
	}
}

// GenerateDecision picks the decision sentence and options for in. Identical
// input always yields identical output.
func (a *Advisor) GenerateDecision(in Input) Decision {
	if in.Category == "" {
		in.Category = riskengine.CategoryFromScore(in.Score)
	}

	return Decision{
		Category: in.Category,
		Text:     a.text(in),
		Options:  options(in),
	}
}

func (a *Advisor) text(in Input) string {
	set := templates[in.Category]
	if len(set) == 0 {
		set = templates[riskengine.CategoryModerate]
	}
	t := set[TemplateIndex(in.PM25, in.Mode, len(set))]

	text := t.plain
	if in.Destination != "" {
		withDest := fmt.Sprintf(t.withDestination, FormatText(in.Destination, a.maxChars))
		if utf8.RuneCountInString(withDest) <= a.maxChars {
			text = withDest
		}
	}
	return FormatText(text, a.maxChars)
}

// TemplateIndex selects one of n templates from the rounded concentration and
// travel mode.
func TemplateIndex(pm float64, mode riskengine.TravelMode, n int) int {
	if n <= 1 {
		return 0
	}
	if math.IsNaN(pm) || math.IsInf(pm, 0) {
		pm = 0
	}
	key := fmt.Sprintf("%d|%s", int64(math.Round(pm)), mode)
	return int(xxh3.HashString(key) % uint64(n))
}

func options(in Input) []Option {
	score := math.Max(in.Score, 0)
	mode := in.Mode

	proceed := Option{Action: ActionProceed, Label: "Go ahead as planned."}
	mitigate := Option{
		Action:    ActionProceedWithMitigation,
		Label:     "Go, wearing a well-fitted N95 mask.",
		RiskDelta: delta(score, riskengine.MaskFactor(health.MaskN95)/riskengine.MaskFactor(in.Profile.Mask)),
	}
	postpone := Option{
		Action:    ActionPostpone,
		Label:     "Postpone until the air clears.",
		RiskDelta: delta(score, postponeResidual),
	}
	indoor := Option{
		Action:    ActionStayIndoor,
		Label:     "Stay indoors with windows closed.",
		RiskDelta: delta(score, indoorResidual),
	}

	// An N95 wearer has no better mask to switch to.
	masked := in.Profile.Mask == health.MaskN95

	var opts []Option
	switch in.Category {
	case riskengine.CategoryLow:
		opts = []Option{proceed}
		if masked {
			opts = append(opts, postpone)
		} else {
			opts = append(opts, mitigate)
		}
	case riskengine.CategoryModerate:
		if !masked {
			opts = append(opts, mitigate)
		}
		if sw, ok := modeSwitch(score, mode); ok {
			opts = append(opts, sw)
		}
		opts = append(opts, postpone, proceed)
	case riskengine.CategoryHigh:
		if sw, ok := modeSwitch(score, mode); ok {
			opts = append(opts, sw)
		}
		if !masked {
			opts = append(opts, mitigate)
		}
		opts = append(opts, postpone, indoor)
	default:
		opts = append(opts, indoor, postpone)
		if needsEmergencyContact(in.Profile) {
			opts = append(opts, Option{
				Action: ActionEmergencyContact,
				Label:  "Keep your doctor or emergency number at hand.",
			})
		}
		if sw, ok := modeSwitch(score, mode); ok {
			opts = append(opts, sw)
		}
	}

	if len(opts) > maxOptions {
		opts = opts[:maxOptions]
	}
	return opts
}

// modeSwitch suggests the metro when it is meaningfully cleaner than mode.
func modeSwitch(score float64, mode riskengine.TravelMode) (Option, bool) {
	target := riskengine.ModeMetro
	cur := riskengine.TravelModifier(mode)
	next := riskengine.TravelModifier(target)
	if mode == target || cur <= next {
		return Option{}, false
	}
	return Option{
		Action:    ActionModeSwitch,
		Label:     fmt.Sprintf("Take the %s instead.", target),
		RiskDelta: delta(score, next/cur),
	}, true
}

func needsEmergencyContact(p riskengine.Profile) bool {
	return p.HasRespiratoryDisease() || p.Has(health.DiseaseCardiovascular)
}

// delta is the score change when exposure is scaled by residual.
func delta(score, residual float64) float64 {
	return health.Round(score*residual-score, 1)
}
