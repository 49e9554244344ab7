package exposure

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

// ErrNoRoutes is returned when a route comparison receives no candidates.
// It is the only condition in the risk models that fails instead of degrading.
var ErrNoRoutes = errors.New("no route candidates supplied")

// comparisonDeltaThreshold is the average-PHRI gap above which a one-line
// comparison is attached to the safest route.
const comparisonDeltaThreshold = 10.0

// RouteCandidate is a route alternative with pollutant samples along it.
type RouteCandidate struct {
	Index           int              `json:"index"`
	Coordinates     []geo.Coordinate `json:"coordinates"`
	DistanceMeters  float64          `json:"distanceMeters"`
	DurationSeconds float64          `json:"durationSeconds"`

	// Samples are PM2.5 concentrations aligned one-to-one with SampleLocations.
	Samples         []float64        `json:"samples"`
	SampleLocations []geo.Coordinate `json:"sampleLocations,omitempty"`
}

// SampleCount returns the number of usable samples. When locations are given
// the shorter of the two sequences bounds iteration.
func (r RouteCandidate) SampleCount() int {
	if len(r.SampleLocations) == 0 {
		return len(r.Samples)
	}
	return min(len(r.Samples), len(r.SampleLocations))
}

// ConcentrationAt returns sample i. Samples without a location are ignored.
// Indices past the end, negative or NaN
// samples fall back to the last known valid value before i, then the first
// valid one after it, then 0.
func (r RouteCandidate) ConcentrationAt(i int) float64 {
	n := r.SampleCount()
	if n == 0 {
		return 0
	}
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	for j := i; j >= 0; j-- {
		if ValidSample(r.Samples[j]) {
			return r.Samples[j]
		}
	}
	for j := i + 1; j < n; j++ {
		if ValidSample(r.Samples[j]) {
			return r.Samples[j]
		}
	}
	return 0
}

// Concentrations returns the aligned samples with fallbacks applied.
func (r RouteCandidate) Concentrations() []float64 {
	n := r.SampleCount()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.ConcentrationAt(i)
	}
	return out
}

// TripMinutes estimates travel time from distance at speedKmh, falling back
// to the candidate's own duration when no speed is given. Without a distance
// the length of the coordinate path is used.
func (r RouteCandidate) TripMinutes(speedKmh float64) float64 {
	meters := r.DistanceMeters
	if meters <= 0 {
		meters = geo.PathLength(r.Coordinates)
	}
	if speedKmh > 0 && meters > 0 {
		return meters / 1000 / speedKmh * 60
	}
	return math.Max(r.DurationSeconds, 0) / 60
}

// ValidSample reports whether v is a usable concentration.
func ValidSample(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// RouteRisk is the PHRI summary of one route.
type RouteRisk struct {
	RouteIndex int `json:"routeIndex"`

	// Rank is 1 for the safest route.
	Rank int `json:"rank"`

	AveragePHRI float64 `json:"averagePHRI"`
	PeakPHRI    float64 `json:"peakPHRI"`

	// CumulativePHRI is the time-weighted dose in PHRI-minutes.
	CumulativePHRI float64 `json:"cumulativePHRI"`

	MeanConcentration float64          `json:"meanConcentration"`
	PeakConcentration float64          `json:"peakConcentration"`
	TripMinutes       float64          `json:"tripMinutes"`
	SampleCount       int              `json:"sampleCount"`
	Level             health.RiskLevel `json:"riskLevel"`
	Safest            bool             `json:"isSafest"`
	Comparison        string           `json:"comparison,omitempty"`
}

// CompareRouteRisks scores every candidate for the profile and ranks them by
// average PHRI, ascending. Routes are scored concurrently.
func CompareRouteRisks(
	routes []RouteCandidate,
	p health.Profile,
	speedKmh float64,
	activity health.ActivityLevel,
) ([]RouteRisk, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}

	results := make([]RouteRisk, len(routes))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range routes {
		g.Go(func() error {
			results[i] = assessRoute(routes[i], p, speedKmh, activity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score routes: %w", err)
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := results[order[a]], results[order[b]]
		if ra.AveragePHRI != rb.AveragePHRI {
			return ra.AveragePHRI < rb.AveragePHRI
		}
		if ra.PeakPHRI != rb.PeakPHRI {
			return ra.PeakPHRI < rb.PeakPHRI
		}
		return order[a] < order[b]
	})

	ranked := make([]RouteRisk, len(order))
	for rank, idx := range order {
		ranked[rank] = results[idx]
		ranked[rank].Rank = rank + 1
	}
	ranked[0].Safest = true

	best, worst := ranked[0], ranked[len(ranked)-1]
	if delta := worst.AveragePHRI - best.AveragePHRI; delta > comparisonDeltaThreshold {
		ranked[0].Comparison = fmt.Sprintf(
			"Route %d lowers average health risk by %.0f points compared with route %d.",
			best.RouteIndex, delta, worst.RouteIndex,
		)
	}

	return ranked, nil
}

// assessRoute scores each sample as if the whole trip were spent at that
// concentration, then aggregates.
func assessRoute(r RouteCandidate, p health.Profile, speedKmh float64, activity health.ActivityLevel) RouteRisk {
	minutes := r.TripMinutes(speedKmh)
	concentrations := r.Concentrations()

	out := RouteRisk{
		RouteIndex:  r.Index,
		TripMinutes: health.Round(minutes, 1),
		SampleCount: len(concentrations),
		Level:       health.RiskLow,
	}
	if len(concentrations) == 0 {
		return out
	}

	scores := make([]float64, len(concentrations))
	for i, pm := range concentrations {
		scores[i] = ComputeRisk(Input{
			PM25:            pm,
			DurationMinutes: minutes,
			Activity:        activity,
			Outdoor:         true,
		}, p).Score
	}

	avg := stat.Mean(scores, nil)
	out.AveragePHRI = health.Round(avg, 1)
	out.PeakPHRI = floats.Max(scores)
	out.CumulativePHRI = health.Round(avg*minutes, 1)
	out.MeanConcentration = health.Round(stat.Mean(concentrations, nil), 1)
	out.PeakConcentration = floats.Max(concentrations)
	out.Level = health.RiskLevelFromScore(out.AveragePHRI)
	return out
}
