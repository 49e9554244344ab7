package airquality

import (
	"errors"
	"math"
	"sort"

	"github.com/breatheroute/phri/pkg/geo"
)

// Interpolation errors.
var (
	ErrNoStationsInRange = errors.New("no stations within range")
	ErrInsufficientData  = errors.New("insufficient data for interpolation")
)

// Confidence represents the confidence level of an interpolated value.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// InterpolationConfig holds configuration for the interpolation algorithm.
type InterpolationConfig struct {
	// MaxDistance is the maximum distance (in meters) to consider stations.
	// Default: 50000 (50km).
	MaxDistance float64

	// MinStations is the minimum number of stations required. Default: 1.
	MinStations int

	// MaxStations is the maximum number of nearest stations to use. Default: 5.
	MaxStations int

	// Power is the inverse distance weighting exponent. Default: 2.0.
	Power float64

	// HighConfidenceMaxDistance is the max nearest-station distance for HIGH
	// confidence. Default: 5000 (5km).
	HighConfidenceMaxDistance float64

	// MediumConfidenceMaxDistance is the max nearest-station distance for
	// MEDIUM confidence. Default: 15000 (15km).
	MediumConfidenceMaxDistance float64
}

// DefaultInterpolationConfig returns the default configuration.
func DefaultInterpolationConfig() InterpolationConfig {
	return InterpolationConfig{
		MaxDistance:                 50000,
		MinStations:                 1,
		MaxStations:                 5,
		Power:                       2.0,
		HighConfidenceMaxDistance:   5000,
		MediumConfidenceMaxDistance: 15000,
	}
}

// Estimate is an interpolated PM2.5 value at a point.
type Estimate struct {
	Location   geo.Coordinate `json:"location"`
	PM25       float64        `json:"pm25"`
	Confidence Confidence     `json:"confidence"`

	// NearestStationDistance is in meters.
	NearestStationDistance float64               `json:"nearestStationDistance"`
	Contributions          []StationContribution `json:"contributions"`
}

// StationContribution describes a station's share of an estimate.
type StationContribution struct {
	StationID string  `json:"stationId"`
	Distance  float64 `json:"distance"` // meters
	Value     float64 `json:"value"`
	Weight    float64 `json:"weight"` // normalized 0-1
}

type stationDistance struct {
	station  Station
	distance float64
}

// Interpolator performs inverse distance weighted interpolation.
type Interpolator struct {
	config InterpolationConfig
}

// NewInterpolator creates a new Interpolator with the given configuration.
func NewInterpolator(config InterpolationConfig) *Interpolator {
	def := DefaultInterpolationConfig()
	if config.MaxDistance <= 0 {
		config.MaxDistance = def.MaxDistance
	}
	if config.MinStations <= 0 {
		config.MinStations = def.MinStations
	}
	if config.MaxStations <= 0 {
		config.MaxStations = def.MaxStations
	}
	if config.Power <= 0 {
		config.Power = def.Power
	}
	if config.HighConfidenceMaxDistance <= 0 {
		config.HighConfidenceMaxDistance = def.HighConfidenceMaxDistance
	}
	if config.MediumConfidenceMaxDistance <= 0 {
		config.MediumConfidenceMaxDistance = def.MediumConfidenceMaxDistance
	}
	return &Interpolator{config: config}
}

// Interpolate estimates PM2.5 at point from the nearest stations.
func (i *Interpolator) Interpolate(point geo.Coordinate, stations []Station) (*Estimate, error) {
	if len(stations) == 0 {
		return nil, ErrNoStationsInRange
	}

	var nearby []stationDistance
	for _, st := range stations {
		if d := geo.Distance(point, st.Location); d <= i.config.MaxDistance {
			nearby = append(nearby, stationDistance{station: st, distance: d})
		}
	}
	if len(nearby) == 0 {
		return nil, ErrNoStationsInRange
	}
	if len(nearby) < i.config.MinStations {
		return nil, ErrInsufficientData
	}

	sort.Slice(nearby, func(a, b int) bool { return nearby[a].distance < nearby[b].distance })
	if len(nearby) > i.config.MaxStations {
		nearby = nearby[:i.config.MaxStations]
	}

	contributions := make([]StationContribution, 0, len(nearby))
	var totalWeight float64
	for _, sd := range nearby {
		var weight float64
		if sd.distance < 1 {
			// on top of a station
			weight = 1e10
		} else {
			weight = 1.0 / math.Pow(sd.distance, i.config.Power)
		}
		contributions = append(contributions, StationContribution{
			StationID: sd.station.ID,
			Distance:  sd.distance,
			Value:     sd.station.PM25,
			Weight:    weight,
		})
		totalWeight += weight
	}

	var value float64
	for idx := range contributions {
		contributions[idx].Weight /= totalWeight
		value += contributions[idx].Value * contributions[idx].Weight
	}

	nearest := contributions[0].Distance
	return &Estimate{
		Location:               point,
		PM25:                   value,
		Confidence:             i.confidence(nearest, len(contributions)),
		NearestStationDistance: nearest,
		Contributions:          contributions,
	}, nil
}

// confidence determines confidence level based on distance and station count.
func (i *Interpolator) confidence(nearestDistance float64, stationCount int) Confidence {
	if nearestDistance <= i.config.HighConfidenceMaxDistance && stationCount >= 2 {
		return ConfidenceHigh
	}
	if nearestDistance <= i.config.MediumConfidenceMaxDistance {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
