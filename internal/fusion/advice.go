package fusion

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
)

const (
	// whoDailyGuideline is the WHO 2021 24-hour PM2.5 guideline in µg/m³.
	whoDailyGuideline = 15.0

	maxFacts   = 4
	maxOptions = 4

	// postponeReductionPct is the typical off-peak reduction versus rush hours.
	postponeReductionPct = 30.0
)

var feasibilityRank = map[Feasibility]int{
	FeasibilityHigh:   0,
	FeasibilityMedium: 1,
	FeasibilityLow:    2,
}

type fusion struct {
	env  Environment
	loc  Location
	act  Activity
	user User

	effective float64
	envMult   float64
	level     DecisionLevel
	risk      exposure.Result
}

type fact struct {
	significance float64
	text         string
}

func (f fusion) facts() []string {
	all := []fact{{
		significance: f.effective / whoDailyGuideline,
		text: fmt.Sprintf("Effective PM2.5 exposure is %.0f µg/m³, %.1f× the WHO 24-hour guideline.",
			f.effective, f.effective/whoDailyGuideline),
	}}

	if m := lookup(weatherMultipliers, f.env.Condition); m != 1.0 {
		all = append(all, fact{math.Abs(m-1) * 5, percentChange(string(f.env.Condition), m)})
	}
	if m := windAdjustment(f.env.Reading); m != 1.0 {
		label := "Calm wind"
		if m < 1 {
			label = "Strong wind"
		}
		all = append(all, fact{math.Abs(m-1) * 5, percentChange(label, m)})
	}
	if m := lookup(locationMultipliers, f.loc.Type); m < 1.0 {
		all = append(all, fact{1, fmt.Sprintf("Being %s cuts exposure by %.0f%%.", f.loc.Type, (1-m)*100)})
	}
	if df := f.risk.Factors.DiseaseFactor; df > 1.0 {
		all = append(all, fact{(df - 1) * 3, fmt.Sprintf("Your health conditions raise sensitivity %.1f×.", df)})
	}
	if f.act.Exercising {
		all = append(all, fact{2.5, "Exercise raises your breathing rate and intake by 50%."})
	}
	if n := len(f.loc.NearbySources); n > 0 {
		all = append(all, fact{float64(n) * 0.5, fmt.Sprintf("%d pollution sources nearby.", n)})
	}
	if h := f.user.CumulativeExposureHours; h > 4 {
		all = append(all, fact{(h - 4) * 0.25, fmt.Sprintf("You have already spent %.1f hours exposed in the last 24 hours.", h)})
	}
	if n := len(f.user.Symptoms); n > 0 {
		all = append(all, fact{float64(n) * 0.6, fmt.Sprintf("%d current symptoms raise your risk.", n)})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].significance > all[j].significance })
	if len(all) > maxFacts {
		all = all[:maxFacts]
	}

	out := make([]string, len(all))
	for i, fc := range all {
		out[i] = fc.text
	}
	return out
}

func (f fusion) options() []Option {
	if f.level == LevelSafe {
		return []Option{{
			Action:      "proceed",
			Description: "No changes needed.",
			Feasibility: FeasibilityHigh,
		}}
	}

	var opts []Option

	if residual := exposure.ProtectionFactor(f.user.HasMask, f.user.Mask); residual > exposure.ProtectionFactor(true, health.MaskN95) {
		opts = append(opts, Option{
			Action:           "wear_n95",
			Description:      "Wear a well-fitted N95 respirator.",
			RiskReductionPct: (1 - exposure.ProtectionFactor(true, health.MaskN95)/residual) * 100,
			Feasibility:      FeasibilityHigh,
		})
	}

	if cur := lookup(modeMultipliers, f.act.Mode); cur > modeMultipliers[ModeSkytrain] && f.loc.Type != LocationIndoor {
		target, targetMult := ModeSkytrain, modeMultipliers[ModeSkytrain]
		opts = append(opts, Option{
			Action:           "switch_mode",
			Description:      fmt.Sprintf("Travel by %s instead of %s.", target, f.act.Mode),
			RiskReductionPct: (1 - targetMult/cur) * 100,
			Feasibility:      FeasibilityMedium,
		})
	}

	if f.loc.Type == LocationOutdoor || f.loc.Type == "" {
		opts = append(opts, Option{
			Action:           "stay_indoors",
			Description:      "Move indoors and keep windows closed.",
			RiskReductionPct: (1 - locationMultipliers[LocationIndoor]) * 100,
			Feasibility:      FeasibilityMedium,
		})
	}

	if f.act.Exercising {
		opts = append(opts, Option{
			Action:           "reduce_exertion",
			Description:      "Stop exercising and keep a gentle pace.",
			RiskReductionPct: (1 - 1/1.5) * 100,
			Feasibility:      FeasibilityHigh,
		})
	}

	if d := f.act.DurationMinutes; d > 0 {
		if full := exposure.DurationFactor(d); full > 0 {
			opts = append(opts, Option{
				Action:           "shorten_exposure",
				Description:      fmt.Sprintf("Cut the time outside to about %.0f minutes.", d/2),
				RiskReductionPct: (1 - exposure.DurationFactor(d/2)/full) * 100,
				Feasibility:      FeasibilityMedium,
			})
		}
	}

	opts = append(opts, Option{
		Action:           "postpone",
		Description:      "Postpone to a cleaner time window.",
		RiskReductionPct: postponeReductionPct,
		Feasibility:      FeasibilityLow,
	})

	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].RiskReductionPct != opts[j].RiskReductionPct {
			return opts[i].RiskReductionPct > opts[j].RiskReductionPct
		}
		return feasibilityRank[opts[i].Feasibility] < feasibilityRank[opts[j].Feasibility]
	})
	if len(opts) > maxOptions {
		opts = opts[:maxOptions]
	}
	for i := range opts {
		opts[i].RiskReductionPct = health.Round(opts[i].RiskReductionPct, 0)
	}
	return opts
}

// safeWindow suggests the next period with typically lower concentrations,
// keyed off the hour of the observation. Nil when already safe or when the
// observation time is unknown.
func safeWindow(level DecisionLevel, at time.Time) *TimeWindow {
	if level == LevelSafe || at.IsZero() {
		return nil
	}

	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	window := func(d time.Time, from, to int, reason string) *TimeWindow {
		return &TimeWindow{
			Start:  d.Add(time.Duration(from) * time.Hour),
			End:    d.Add(time.Duration(to) * time.Hour),
			Reason: reason,
		}
	}

	switch h := at.Hour(); {
	case h < 10:
		return window(day, 10, 15, "Midday, after the morning rush, when the boundary layer has deepened.")
	case h < 21:
		return window(day, 21, 23, "Late evening, once traffic from the evening rush has cleared.")
	default:
		return window(day.AddDate(0, 0, 1), 10, 15, "Tomorrow midday, after the morning rush.")
	}
}

func percentChange(label string, m float64) string {
	if label == "" {
		label = "Weather"
	}
	verb := "raises"
	if m < 1 {
		verb = "lowers"
	}
	return fmt.Sprintf("%s %s exposure by %.0f%%.", capitalize(label), verb, math.Abs(m-1)*100)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
