package optimizer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

// ErrNoRoutes is returned when there is nothing to rank.
var ErrNoRoutes = exposure.ErrNoRoutes

const (
	avgExposureShare  = 0.5
	peakExposureShare = 0.3
	varianceShare     = 0.2

	durationShare = 0.6
	distanceShare = 0.4

	// maxPHRIVariance is the population variance of a route alternating
	// between 0 and 100.
	maxPHRIVariance = 2500.0

	highQualityFraction   = 0.9
	mediumQualityFraction = 0.6
	highQualityPerKm      = 1.0
)

// Config holds configuration for an Optimizer.
type Config struct {
	// ConcentrationCeiling normalises average and peak exposure (default: 250 µg/m³).
	ConcentrationCeiling float64

	// DurationCeilingMinutes normalises trip time (default: 120).
	DurationCeilingMinutes float64

	// DistanceCeilingKm normalises trip length (default: 50).
	DistanceCeilingKm float64

	// HealthWeight and ConvenienceWeight blend the two objectives (default: 0.7/0.3).
	HealthWeight      float64
	ConvenienceWeight float64

	// DefaultLanguage is used when a request names none (default: en).
	DefaultLanguage string

	// Logger for optimisation events.
	Logger zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ConcentrationCeiling:   250,
		DurationCeilingMinutes: 120,
		DistanceCeilingKm:      50,
		HealthWeight:           0.7,
		ConvenienceWeight:      0.3,
		DefaultLanguage:        "en",
	}
}

// Optimizer ranks routes on health and convenience.
type Optimizer struct {
	cfg     Config
	matcher language.Matcher
	logger  zerolog.Logger
}

// New creates an Optimizer, filling zero fields from DefaultConfig.
func New(cfg Config) *Optimizer {
	def := DefaultConfig()
	if cfg.ConcentrationCeiling <= 0 {
		cfg.ConcentrationCeiling = def.ConcentrationCeiling
	}
	if cfg.DurationCeilingMinutes <= 0 {
		cfg.DurationCeilingMinutes = def.DurationCeilingMinutes
	}
	if cfg.DistanceCeilingKm <= 0 {
		cfg.DistanceCeilingKm = def.DistanceCeilingKm
	}
	if cfg.HealthWeight <= 0 && cfg.ConvenienceWeight <= 0 {
		cfg.HealthWeight = def.HealthWeight
		cfg.ConvenienceWeight = def.ConvenienceWeight
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = def.DefaultLanguage
	}

	return &Optimizer{
		cfg:     cfg,
		matcher: language.NewMatcher(supportedLanguages),
		logger:  cfg.Logger,
	}
}

// OptimizeForSafety scores every candidate, ranks them ascending by overall
// score and explains the top route.
func (o *Optimizer) OptimizeForSafety(ctx context.Context, req Request) (*Result, error) {
	if len(req.Routes) == 0 {
		return nil, ErrNoRoutes
	}
	if req.Activity == "" {
		req.Activity = health.ActivityLight
	}

	scores := make([]RouteScore, len(req.Routes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range req.Routes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = o.score(req.Routes[i], req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score routes: %w", err)
	}

	fastest := 0
	for i, s := range scores {
		if s.DurationMinutes < scores[fastest].DurationMinutes {
			fastest = i
		}
	}
	fastestScore := scores[fastest]

	sort.SliceStable(scores, func(a, b int) bool { return scores[a].OverallScore < scores[b].OverallScore })
	for i := range scores {
		scores[i].Rank = i + 1
	}

	best := scores[0]
	warning := warningFor(best.AverageConcentration, req.Profile)
	lang, text := o.decisionText(req.Language, warning, best.RouteIndex)

	res := &Result{
		Routes:       scores,
		Recommended:  best,
		Warning:      warning,
		DecisionText: text,
		Language:     lang,
		TradeOff:     tradeOff(best, fastestScore),
	}

	o.logger.Debug().
		Int("routes", len(scores)).
		Int("recommended", best.RouteIndex).
		Float64("overall_score", best.OverallScore).
		Str("warning", string(warning)).
		Str("language", lang).
		Msg("optimized routes for safety")

	return res, nil
}

func (o *Optimizer) score(r exposure.RouteCandidate, req Request) RouteScore {
	minutes := r.TripMinutes(req.SpeedKmh)
	km := r.DistanceMeters / 1000
	if km <= 0 {
		km = geo.PathLength(r.Coordinates) / 1000
	}

	out := RouteScore{
		RouteIndex:      r.Index,
		DurationMinutes: health.Round(minutes, 1),
		DistanceKm:      health.Round(km, 2),
	}

	concentrations := r.Concentrations()
	if len(concentrations) > 0 {
		phri := make([]float64, len(concentrations))
		for i, pm := range concentrations {
			phri[i] = exposure.ComputeRisk(exposure.Input{
				PM25:            pm,
				DurationMinutes: minutes,
				Activity:        req.Activity,
				Outdoor:         true,
			}, req.Profile).Score
		}

		out.AverageConcentration = stat.Mean(concentrations, nil)
		out.PeakConcentration = floats.Max(concentrations)
		out.AveragePHRI = stat.Mean(phri, nil)
		out.PeakPHRI = floats.Max(phri)
		if len(phri) > 1 {
			out.PHRIVariance = stat.PopVariance(phri, nil)
		}
	}

	healthScore := avgExposureShare*o.normalise(out.AverageConcentration, o.cfg.ConcentrationCeiling) +
		peakExposureShare*o.normalise(out.PeakConcentration, o.cfg.ConcentrationCeiling) +
		varianceShare*o.normalise(out.PHRIVariance, maxPHRIVariance)
	convenience := durationShare*o.normalise(minutes, o.cfg.DurationCeilingMinutes) +
		distanceShare*o.normalise(km, o.cfg.DistanceCeilingKm)

	out.HealthScore = health.Round(healthScore, 2)
	out.ConvenienceScore = health.Round(convenience, 2)
	out.OverallScore = health.Round(o.cfg.HealthWeight*healthScore+o.cfg.ConvenienceWeight*convenience, 2)

	out.ValidFraction, out.DataQuality = dataQuality(r, km)

	out.AverageConcentration = health.Round(out.AverageConcentration, 1)
	out.PeakConcentration = health.Round(out.PeakConcentration, 1)
	out.AveragePHRI = health.Round(out.AveragePHRI, 1)
	out.PeakPHRI = health.Round(out.PeakPHRI, 1)
	out.PHRIVariance = health.Round(out.PHRIVariance, 1)
	return out
}

// normalise maps v onto 0-100 against ceiling.
func (o *Optimizer) normalise(v, ceiling float64) float64 {
	return health.Clamp(v/ceiling, 0, 1) * 100
}

// dataQuality grades a route from the fraction of positive samples and
// their density along the route.
func dataQuality(r exposure.RouteCandidate, km float64) (float64, DataQuality) {
	n := r.SampleCount()
	if n == 0 {
		return 0, QualityLow
	}

	valid := 0
	for _, v := range r.Samples[:n] {
		if exposure.ValidSample(v) && v > 0 {
			valid++
		}
	}
	fraction := float64(valid) / float64(n)
	dense := km <= 0 || float64(n)/km >= highQualityPerKm

	switch {
	case fraction >= highQualityFraction && dense:
		return health.Round(fraction, 2), QualityHigh
	case fraction >= mediumQualityFraction:
		return health.Round(fraction, 2), QualityMedium
	default:
		return health.Round(fraction, 2), QualityLow
	}
}

func warningFor(avgConcentration float64, p health.Profile) WarningLevel {
	switch {
	case avgConcentration > 100:
		return WarningDanger
	case avgConcentration > 25 && p.HasRespiratoryDisease():
		return WarningDanger
	case avgConcentration > 50:
		return WarningWarning
	case avgConcentration > 25:
		return WarningCaution
	default:
		return WarningNone
	}
}

func tradeOff(best, fastest RouteScore) TradeOff {
	if best.RouteIndex == fastest.RouteIndex {
		return TradeOff{}
	}

	var benefit float64
	if fastest.HealthScore > 0 {
		benefit = math.Max((fastest.HealthScore-best.HealthScore)/fastest.HealthScore*100, 0)
	}
	return TradeOff{
		HealthBenefitPct: health.Round(benefit, 1),
		ExtraMinutes:     health.Round(best.DurationMinutes-fastest.DurationMinutes, 1),
		ExtraDistanceKm:  health.Round(best.DistanceKm-fastest.DistanceKm, 2),
	}
}
