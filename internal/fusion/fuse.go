package fusion

import (
	"math"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
)

// MaxContextMultiplier caps the combined context adjustment.
const MaxContextMultiplier = 3.0

var modeMultipliers = map[ActivityMode]float64{
	ModeWalking:    1.0,
	ModeCycling:    1.2,
	ModeMotorcycle: 0.9,
	ModeCar:        0.4,
	ModeBus:        0.5,
	ModeSkytrain:   0.2,
	ModeMetro:      0.3,
	ModeStationary: 0.8,
}

var modeIntensities = map[ActivityMode]health.ActivityLevel{
	ModeWalking:    health.ActivityLight,
	ModeCycling:    health.ActivityModerate,
	ModeMotorcycle: health.ActivityRest,
	ModeCar:        health.ActivityRest,
	ModeBus:        health.ActivityRest,
	ModeSkytrain:   health.ActivityRest,
	ModeMetro:      health.ActivityRest,
	ModeStationary: health.ActivityRest,
}

var weatherMultipliers = map[health.WeatherCondition]float64{
	health.WeatherClear:  1.0,
	health.WeatherCloudy: 1.0,
	health.WeatherRain:   0.6,
	health.WeatherHaze:   1.2,
	health.WeatherStorm:  0.5,
}

var locationMultipliers = map[LocationType]float64{
	LocationOutdoor: 1.0,
	LocationIndoor:  0.3,
	LocationTransit: 0.5,
	LocationVehicle: 0.4,
}

var areaMultipliers = map[AreaType]float64{
	AreaIndustrial:  1.3,
	AreaRoadside:    1.2,
	AreaUrban:       1.1,
	AreaResidential: 1.0,
	AreaSuburban:    0.85,
	AreaPark:        0.7,
	AreaRural:       0.6,
}

var ventilationMultipliers = map[Ventilation]float64{
	VentilationLow:      1.0,
	VentilationModerate: 1.2,
	VentilationHigh:     1.4,
}

// Fuse combines environment, location, activity and user into a scored context.
func Fuse(env Environment, loc Location, act Activity, user User) Context {
	raw := health.Clamp(env.PM25, 0, exposure.MaxConcentration)
	envMult := EnvironmentMultiplier(env, loc, act.Mode)
	effective := health.Clamp(raw*envMult, 0, exposure.MaxConcentration)
	ctxMult := ContextMultiplier(loc, act, user)

	risk := exposure.ComputeRisk(exposure.Input{
		PM25:            effective,
		DurationMinutes: act.DurationMinutes,
		Activity:        intensityFor(act),
		// location and mode reductions are already in the effective concentration
		Outdoor: true,
		HasMask: user.HasMask,
		Mask:    user.Mask,
	}, user.Profile)

	score := health.Round(health.Clamp(risk.Score*ctxMult, 0, 100), 1)
	level := LevelFromScore(score)

	f := fusion{env: env, loc: loc, act: act, user: user, effective: effective, envMult: envMult, level: level, risk: risk}

	return Context{
		RawConcentration:       health.Round(raw, 1),
		EffectiveConcentration: health.Round(effective, 1),
		EnvironmentMultiplier:  health.Round(envMult, 3),
		ContextMultiplier:      health.Round(ctxMult, 3),
		Score:                  score,
		Level:                  level,
		Risk:                   risk,
		DecisionText:           decisionText(level),
		SupportingFacts:        f.facts(),
		Options:                f.options(),
		SafeWindow:             safeWindow(level, env.ObservedAt),
	}
}

// EnvironmentMultiplier is the product of mode, weather, location, area,
// temperature/humidity and wind adjustments applied to the raw reading.
func EnvironmentMultiplier(env Environment, loc Location, mode ActivityMode) float64 {
	return lookup(modeMultipliers, mode) *
		lookup(weatherMultipliers, env.Condition) *
		lookup(locationMultipliers, loc.Type) *
		lookup(areaMultipliers, loc.Area) *
		thermalAdjustment(env.Reading) *
		windAdjustment(env.Reading)
}

// ContextMultiplier combines ventilation, exercise, recent cumulative
// exposure, symptoms and nearby sources, capped at 3.0.
func ContextMultiplier(loc Location, act Activity, user User) float64 {
	m := lookup(ventilationMultipliers, act.Ventilation)
	if act.Exercising {
		m *= 1.5
	}
	if h := user.CumulativeExposureHours; h > 4 {
		m *= 1 + 0.05*(h-4)
	}
	m *= 1 + 0.1*float64(len(user.Symptoms))
	m *= 1 + 0.1*float64(len(loc.NearbySources))
	return math.Min(m, MaxContextMultiplier)
}

func thermalAdjustment(r health.Reading) float64 {
	switch {
	case r.HotAndDry(30, 40):
		return 1.15
	case r.CoolAndHumid(15, 70):
		return 0.9
	default:
		return 1.0
	}
}

func windAdjustment(r health.Reading) float64 {
	if r.WindSpeed == nil {
		return 1.0
	}
	switch health.WindCategoryOf(*r.WindSpeed) {
	case health.WindCalm:
		return 1.1
	case health.WindStrong:
		return 0.7
	default:
		return 1.0
	}
}

func intensityFor(act Activity) health.ActivityLevel {
	if act.Intensity != "" {
		return act.Intensity
	}
	if level, ok := modeIntensities[act.Mode]; ok {
		return level
	}
	return health.ActivityRest
}

func decisionText(level DecisionLevel) string {
	switch level {
	case LevelSafe:
		return "Air quality is safe for this activity."
	case LevelCaution:
		return "Take care: limit exertion and consider wearing a mask."
	case LevelWarning:
		return "Unhealthy exposure expected. Cut time outdoors and wear an N95."
	default:
		return "Dangerous exposure. Avoid this activity and stay indoors if you can."
	}
}

func lookup[K comparable](table map[K]float64, key K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return 1.0
}
