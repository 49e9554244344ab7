package advisor

import "github.com/breatheroute/phri/internal/riskengine"

type template struct {
	plain           string
	withDestination string
}

var templates = map[riskengine.Category][]template{
	riskengine.CategoryLow: {
		{"Air quality is good. Enjoy your trip.", "Air quality is good. Enjoy your trip to %s."},
		{"Clean air today, no precautions needed.", "Clean air on the way to %s, no precautions needed."},
		{"Low risk. Go ahead as planned.", "Low risk. Go ahead to %s as planned."},
	},
	riskengine.CategoryModerate: {
		{"Moderate risk. Consider a mask and a quieter route.", "Moderate risk to %s. Consider a mask and a quieter route."},
		{"Air is fair. Sensitive people should take it easy.", "Air is fair towards %s. Sensitive people should take it easy."},
		{"Some pollution about. A mask will help.", "Some pollution on the way to %s. A mask will help."},
	},
	riskengine.CategoryHigh: {
		{"High risk. Wear an N95 or choose enclosed transport.", "High risk to %s. Wear an N95 or choose enclosed transport."},
		{"Unhealthy air. Keep the trip short and avoid busy roads.", "Unhealthy air towards %s. Keep the trip short and avoid busy roads."},
		{"Pollution is high. Limit time outdoors.", "Pollution is high on the way to %s. Limit time outdoors."},
	},
	riskengine.CategorySevere: {
		{"Severe risk. Stay indoors if you can.", "Severe risk. Postpone your trip to %s if you can."},
		{"Dangerous air. Avoid travelling outdoors.", "Dangerous air. Avoid travelling to %s outdoors."},
		{"Hazardous pollution. Postpone non-essential trips.", "Hazardous pollution. Postpone the trip to %s unless essential."},
	},
}
