package optimizer

import (
	"fmt"

	"golang.org/x/text/language"
)

// supportedLanguages is ordered to match decisionTemplates.
var supportedLanguages = []language.Tag{
	language.English,
	language.Vietnamese,
}

// SupportedLanguages returns the BCP 47 tags decision text is available in.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	for i, t := range supportedLanguages {
		out[i] = t.String()
	}
	return out
}

var decisionTemplates = []map[WarningLevel]string{
	{
		WarningNone:    "Route %d is the healthiest choice. Air quality along it is good.",
		WarningCaution: "Route %d is the healthiest choice. Sensitive travellers should limit exertion.",
		WarningWarning: "Route %d keeps your exposure lowest, but the air is unhealthy. Wear an N95 mask.",
		WarningDanger:  "Route %d is the least polluted, but the air is dangerous for you. Postpone the trip or use enclosed transport.",
	},
	{
		WarningNone:    "Tuyến %d là lựa chọn tốt nhất cho sức khỏe. Chất lượng không khí trên tuyến này tốt.",
		WarningCaution: "Tuyến %d là lựa chọn tốt nhất cho sức khỏe. Người nhạy cảm nên hạn chế gắng sức.",
		WarningWarning: "Tuyến %d giúp bạn ít phơi nhiễm nhất, nhưng không khí không lành mạnh. Hãy đeo khẩu trang N95.",
		WarningDanger:  "Tuyến %d ít ô nhiễm nhất, nhưng không khí nguy hiểm cho bạn. Hãy hoãn chuyến đi hoặc dùng phương tiện kín.",
	},
}

// decisionText resolves the requested language against the supported set and
// renders the template for the warning level.
func (o *Optimizer) decisionText(requested string, level WarningLevel, routeIndex int) (string, string) {
	if requested == "" {
		requested = o.cfg.DefaultLanguage
	}
	_, idx := language.MatchStrings(o.matcher, requested, o.cfg.DefaultLanguage)

	base, _ := supportedLanguages[idx].Base()
	return base.String(), fmt.Sprintf(decisionTemplates[idx][level], routeIndex)
}
