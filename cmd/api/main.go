// Package main provides the entrypoint for the PHRI API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/breatheroute/phri/internal/api"
	"github.com/breatheroute/phri/internal/api/handler"
	"github.com/breatheroute/phri/internal/api/middleware"
	"github.com/breatheroute/phri/internal/config"
	"github.com/breatheroute/phri/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// drainDelay gives load balancers time to observe the failing readiness
// probe before the listener closes.
const drainDelay = 5 * time.Second

func main() {
	const serviceName = "phri-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	log = log.Level(level)

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Environment).
		Msg("starting PHRI API")

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Float64("sample_ratio", cfg.OTelSampleRatio).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics(tp.Meter)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	scoring, err := telemetry.NewScoringMetrics(tp.Meter)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize scoring metrics")
		os.Exit(1)
	}

	ops := handler.NewOpsHandler(Version, BuildTime)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:              Version,
		BuildTime:            BuildTime,
		Logger:               log,
		Metrics:              metrics,
		ScoringMetrics:       scoring,
		Ops:                  ops,
		RequireTLS:           cfg.RequireTLS,
		ComputeRateLimit:     cfg.ComputeRateLimitPerMin,
		StandardRateLimit:    cfg.StandardRateLimitPerMin,
		DefaultSpeedKmh:      cfg.DefaultTravelSpeedKmh,
		DecisionMaxChars:     cfg.DecisionMaxChars,
		DefaultLanguage:      cfg.DefaultLanguage,
		SampleIntervalMeters: cfg.SampleIntervalMeters,
		MaxBodyBytes:         cfg.MaxBodyBytes,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("draining")
	ops.SetDraining()
	if cfg.IsProduction() {
		time.Sleep(drainDelay)
	}

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1) //nolint:gocritic // deferred telemetry flush is skipped on a forced exit
	}

	log.Info().Msg("server stopped")
}
