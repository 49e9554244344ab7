// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the API server configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	OTelEnabled     bool
	OTLPEndpoint    string
	OTelSampleRatio float64

	RequireTLS bool

	ComputeRateLimitPerMin  int
	StandardRateLimitPerMin int

	DefaultTravelSpeedKmh float64
	DecisionMaxChars      int
	DefaultLanguage       string
	SampleIntervalMeters  float64
	MaxBodyBytes          int64
}

// Load reads the optional dotenv file at path into the process environment,
// without overriding variables that are already set, then returns
// ConfigFromEnv. A missing file is not an error.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return ConfigFromEnv(), nil
}

// ConfigFromEnv creates a Config from environment variables. Malformed
// numbers fall back to their defaults.
func ConfigFromEnv() Config {
	return Config{
		Port:        getEnvOrDefault("APP_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		LogLevel:    strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTLPEndpoint:    getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),

		RequireTLS: getEnvBool("REQUIRE_TLS", false),

		ComputeRateLimitPerMin:  getEnvInt("RATE_LIMIT_COMPUTE_PER_MIN", 30),
		StandardRateLimitPerMin: getEnvInt("RATE_LIMIT_STANDARD_PER_MIN", 100),

		DefaultTravelSpeedKmh: getEnvFloat("DEFAULT_TRAVEL_SPEED_KMH", 15),
		DecisionMaxChars:      getEnvInt("DECISION_MAX_CHARS", 140),
		DefaultLanguage:       getEnvOrDefault("DEFAULT_LANGUAGE", "en"),
		SampleIntervalMeters:  getEnvFloat("SAMPLE_INTERVAL_METERS", 250),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
