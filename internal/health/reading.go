package health

// WeatherCondition is the categorical weather state of a reading.
type WeatherCondition string

const (
	WeatherClear   WeatherCondition = "clear"
	WeatherCloudy  WeatherCondition = "cloudy"
	WeatherRain    WeatherCondition = "rain"
	WeatherHaze    WeatherCondition = "haze"
	WeatherStorm   WeatherCondition = "storm"
	WeatherUnknown WeatherCondition = ""
)

// AllWeatherConditions returns every named weather condition.
func AllWeatherConditions() []WeatherCondition {
	return []WeatherCondition{WeatherClear, WeatherCloudy, WeatherRain, WeatherHaze, WeatherStorm}
}

// Reading is an immutable air quality and weather snapshot supplied by the
// data collaborator.
type Reading struct {
	// PM25 concentration in µg/m³.
	PM25 float64 `json:"pm25"`

	// AQI is the air quality index (0-500), if reported.
	AQI *float64 `json:"aqi,omitempty"`

	// Temperature in Celsius.
	Temperature *float64 `json:"temperature,omitempty"`

	// Humidity percentage (0-100).
	Humidity *float64 `json:"humidity,omitempty"`

	// WindSpeed in m/s.
	WindSpeed *float64 `json:"windSpeed,omitempty"`

	Condition WeatherCondition `json:"condition,omitempty"`
}

// HotAndDry reports whether the reading is at least minTemp °C with humidity at
// most maxHumidity %. Missing values never match.
func (r Reading) HotAndDry(minTemp, maxHumidity float64) bool {
	return r.Temperature != nil && r.Humidity != nil &&
		*r.Temperature >= minTemp && *r.Humidity <= maxHumidity
}

// CoolAndHumid reports whether the reading is at most maxTemp °C with humidity
// at least minHumidity %. Missing values never match.
func (r Reading) CoolAndHumid(maxTemp, minHumidity float64) bool {
	return r.Temperature != nil && r.Humidity != nil &&
		*r.Temperature <= maxTemp && *r.Humidity >= minHumidity
}

// WindCategory categorizes wind speed by its effect on pollutant dispersion.
type WindCategory string

const (
	WindCalm     WindCategory = "CALM"     // < 1 m/s, pollutants accumulate
	WindLight    WindCategory = "LIGHT"    // 1-3 m/s
	WindModerate WindCategory = "MODERATE" // 3-8 m/s
	WindStrong   WindCategory = "STRONG"   // >= 8 m/s, good dispersion
)

// WindCategoryOf returns the category for a wind speed in m/s.
func WindCategoryOf(speed float64) WindCategory {
	switch {
	case speed < 1:
		return WindCalm
	case speed < 3:
		return WindLight
	case speed < 8:
		return WindModerate
	default:
		return WindStrong
	}
}

// Float returns a pointer to v, for optional reading fields.
func Float(v float64) *float64 {
	return &v
}
