package riskengine

import "github.com/breatheroute/phri/internal/health"

func recommendations(cat Category, p Profile, t Travel) []string {
	var recs []string

	switch cat {
	case CategoryLow:
		recs = append(recs, "Air quality is acceptable for your trip.")
	case CategoryModerate:
		recs = append(recs, "Consider a less polluted route or a shorter trip.")
		if p.Mask == "" || p.Mask == health.MaskNone {
			recs = append(recs, "A well-fitted mask will reduce your exposure.")
		}
	case CategoryHigh:
		recs = append(recs, "Limit time outdoors and avoid busy roads.")
		if p.Mask != health.MaskN95 {
			recs = append(recs, "Wear an N95 mask if you must travel.")
		}
		if t.Mode == ModeCycling || t.Mode == ModeWalking {
			recs = append(recs, "Switch to enclosed transport such as metro or car.")
		}
	case CategorySevere:
		recs = append(recs, "Postpone non-essential travel and stay indoors.")
		recs = append(recs, "Keep windows closed and use an air purifier if available.")
	}

	if cat != CategoryLow {
		if p.HasRespiratoryDisease() {
			recs = append(recs, "Carry your reliever inhaler and follow your action plan.")
		}
		if p.Has(health.DiseaseCardiovascular) {
			recs = append(recs, "Avoid strenuous exertion; seek care for chest pain or palpitations.")
		}
		if p.Has(health.DiseasePregnant) || p.Has(health.DiseaseChild) || p.Has(health.DiseaseElderly) {
			recs = append(recs, "Sensitive groups should take extra precautions today.")
		}
	}

	return recs
}
