// Package routegraph turns a route geometry and its pollutant samples into a
// small graph whose edges carry a disease-adjusted health weight, and compares
// candidate routes by that weight.
package routegraph

import (
	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/pkg/geo"
)

// RoadType classifies the road a segment runs along.
type RoadType string

const (
	RoadHighway     RoadType = "highway"
	RoadArterial    RoadType = "arterial"
	RoadUrban       RoadType = "urban"
	RoadResidential RoadType = "residential"
	RoadCycleway    RoadType = "cycleway"
	RoadPedestrian  RoadType = "pedestrian"
)

// AllRoadTypes returns every road type.
func AllRoadTypes() []RoadType {
	return []RoadType{RoadHighway, RoadArterial, RoadUrban, RoadResidential, RoadCycleway, RoadPedestrian}
}

// TrafficLevel is the traffic density on a segment.
type TrafficLevel string

const (
	TrafficLow       TrafficLevel = "low"
	TrafficModerate  TrafficLevel = "moderate"
	TrafficHigh      TrafficLevel = "high"
	TrafficCongested TrafficLevel = "congested"
)

// AllTrafficLevels returns every traffic level.
func AllTrafficLevels() []TrafficLevel {
	return []TrafficLevel{TrafficLow, TrafficModerate, TrafficHigh, TrafficCongested}
}

// SegmentContext describes the surroundings of one edge. The zero value is neutral.
type SegmentContext struct {
	Road       RoadType     `json:"roadType,omitempty"`
	Traffic    TrafficLevel `json:"trafficLevel,omitempty"`
	GreenCover bool         `json:"greenCover"`
}

// Node is a route coordinate and its matched concentration.
type Node struct {
	Index         int            `json:"index"`
	Coordinate    geo.Coordinate `json:"coordinate"`
	Concentration float64        `json:"concentration"`
}

// Edge connects two consecutive nodes.
type Edge struct {
	From            int     `json:"from"`
	To              int     `json:"to"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`

	// Concentration is the adjusted mean of the endpoint concentrations.
	Concentration float64 `json:"concentration"`

	// ExposureCost is Concentration × minutes, in µg·min/m³.
	ExposureCost float64          `json:"exposureCost"`
	HealthWeight float64          `json:"healthWeight"`
	Level        health.RiskLevel `json:"riskLevel"`
}

// Route is a built graph and its aggregates.
type Route struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	TotalDistanceMeters  float64 `json:"totalDistanceMeters"`
	TotalDurationSeconds float64 `json:"totalDurationSeconds"`
	TotalExposureCost    float64 `json:"totalExposureCost"`

	AverageWeight    float64 `json:"averageWeight"`
	MaxWeight        float64 `json:"maxWeight"`
	HighRiskSegments int     `json:"highRiskSegments"`

	// OverallScore is 0.7 × AverageWeight + 0.3 × MaxWeight.
	OverallScore float64          `json:"overallScore"`
	Level        health.RiskLevel `json:"riskLevel"`
}

// Candidate is a route alternative with optional per-edge context.
type Candidate struct {
	exposure.RouteCandidate
	Segments []SegmentContext `json:"segments,omitempty"`
}

// Recommendation is the outcome of a route comparison.
type Recommendation string

const (
	RecommendIdentical Recommendation = "identical"
	RecommendSafest    Recommendation = "safest"
	RecommendFastest   Recommendation = "fastest"
	RecommendBalanced  Recommendation = "balanced"
)

// Comparison is the result of comparing built routes.
type Comparison struct {
	// Routes are in input order.
	Routes []Route `json:"routes"`

	SafestIndex  int `json:"safestIndex"`
	FastestIndex int `json:"fastestIndex"`

	// HealthSavingPct is how much lower the safest route's average weight is
	// than the fastest route's.
	HealthSavingPct float64 `json:"healthSavingPct"`

	// TimeCostMinutes is the extra time the safest route takes.
	TimeCostMinutes float64 `json:"timeCostMinutes"`

	Recommendation Recommendation `json:"recommendation"`
	DecisionText   string         `json:"decisionText"`
}
