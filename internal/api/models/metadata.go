package models

import (
	"github.com/breatheroute/phri/internal/fusion"
	"github.com/breatheroute/phri/internal/health"
	"github.com/breatheroute/phri/internal/optimizer"
	"github.com/breatheroute/phri/internal/riskengine"
	"github.com/breatheroute/phri/internal/routegraph"
)

// Enums represents the enum values accepted or returned by the API.
type Enums struct {
	Diseases          []health.Disease          `json:"diseases"`
	MaskTypes         []health.MaskType         `json:"maskTypes"`
	ActivityLevels    []health.ActivityLevel    `json:"activityLevels"`
	WeatherConditions []health.WeatherCondition `json:"weatherConditions"`
	RiskLevels        []health.RiskLevel        `json:"riskLevels"`
	Categories        []riskengine.Category     `json:"categories"`
	TravelModes       []riskengine.TravelMode   `json:"travelModes"`
	ActivityModes     []fusion.ActivityMode     `json:"activityModes"`
	RoadTypes         []routegraph.RoadType     `json:"roadTypes"`
	TrafficLevels     []routegraph.TrafficLevel `json:"trafficLevels"`
	WarningLevels     []optimizer.WarningLevel  `json:"warningLevels"`
	Languages         []string                  `json:"languages"`
}
