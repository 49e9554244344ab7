// Package api provides the HTTP API for the PHRI service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/breatheroute/phri/internal/advisor"
	"github.com/breatheroute/phri/internal/airquality"
	"github.com/breatheroute/phri/internal/api/handler"
	"github.com/breatheroute/phri/internal/api/middleware"
	"github.com/breatheroute/phri/internal/api/response"
	"github.com/breatheroute/phri/internal/optimizer"
	"github.com/breatheroute/phri/internal/telemetry"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	Metrics        *middleware.Metrics
	ScoringMetrics *telemetry.ScoringMetrics

	// Ops is shared with the server so shutdown can mark it draining.
	// A nil Ops gets a fresh handler.
	Ops *handler.OpsHandler

	RequireTLS bool

	// Per-minute request limits per client IP; 0 uses the middleware defaults.
	ComputeRateLimit  int
	StandardRateLimit int

	// DefaultSpeedKmh is used for routes without a duration when the request
	// names no speed.
	DefaultSpeedKmh float64

	DecisionMaxChars int
	DefaultLanguage  string

	// SampleIntervalMeters spaces interpolated route samples.
	SampleIntervalMeters float64

	MaxBodyBytes int64
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))          // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))        // Panic recovery
	r.Use(chimiddleware.RealIP)                   // Real IP extraction
	r.Use(middleware.SecurityHeaders)             // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))  // TLS enforcement
	r.Use(middleware.ContentTypeJSON)             // JSON content type
	r.Use(middleware.RequireJSON)                 // Reject non-JSON bodies
	r.Use(middleware.LimitBody(cfg.MaxBodyBytes)) // Cap request bodies

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no such resource")
	})
	r.MethodNotAllowed(response.MethodNotAllowed)

	// Initialize handlers
	opsHandler := cfg.Ops
	if opsHandler == nil {
		opsHandler = handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	}
	sampler := handler.NewRouteSampler(
		airquality.NewInterpolator(airquality.DefaultInterpolationConfig()),
		cfg.SampleIntervalMeters,
	)
	opt := optimizer.DefaultConfig()
	if cfg.DefaultLanguage != "" {
		opt.DefaultLanguage = cfg.DefaultLanguage
	}
	opt.Logger = cfg.Logger

	exposureHandler := handler.NewExposureHandler(cfg.ScoringMetrics, sampler, cfg.DefaultSpeedKmh)
	riskHandler := handler.NewRiskHandler(advisor.New(advisor.Config{MaxChars: cfg.DecisionMaxChars}), cfg.ScoringMetrics)
	contextHandler := handler.NewContextHandler(cfg.ScoringMetrics)
	routeHandler := handler.NewRouteHandler(optimizer.New(opt), sampler, cfg.ScoringMetrics, cfg.DefaultSpeedKmh)
	metadataHandler := handler.NewMetadataHandler()

	// Create rate limit middleware for different endpoint categories
	computeRateLimit := middleware.RateLimitByIP(middleware.PerMinute(cfg.ComputeRateLimit, middleware.ComputeRateLimit))
	standardRateLimit := middleware.RateLimitByIP(middleware.PerMinute(cfg.StandardRateLimit, middleware.StandardRateLimit))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (unlimited, polled by the platform)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Scoring endpoints - compute rate limiting
		r.Group(func(r chi.Router) {
			r.Use(computeRateLimit)

			r.Post("/exposure:score", exposureHandler.Score)
			r.Post("/exposure:compare-routes", exposureHandler.CompareRoutes)

			r.Post("/risk:compute", riskHandler.Compute)
			r.Post("/decisions", riskHandler.Decide)

			r.Post("/context:fuse", contextHandler.Fuse)

			r.Post("/routes:graph", routeHandler.Graph)
			r.Post("/routes:compare", routeHandler.Compare)
			r.Post("/routes:optimize", routeHandler.Optimize)
		})
	})

	return r
}
