// Package api provides the HTTP API for FuelRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api/handler"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Planner produces trip plans.
	Planner handler.TripPlanner

	// TripCache stores computed plans.
	TripCache tripcache.Cache

	// StationService owns the station snapshot.
	StationService *station.Service

	// StationRepo backs the station statistics endpoint.
	StationRepo station.Repository

	// RoutingService owns the route cache.
	RoutingService *routing.Service

	// Providers is the external provider registry for status reporting.
	Providers *resilience.Registry

	// DB is the database pool for readiness checks, or nil.
	DB handler.Pinger

	// AdminToken guards the admin endpoints. Empty disables them.
	AdminToken string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fuelroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		DB:        cfg.DB,
		Providers: cfg.Providers,
		Stations:  cfg.StationService,
		Routes:    cfg.RoutingService,
	})
	tripHandler := handler.NewTripHandler(cfg.Planner, cfg.TripCache, cfg.Logger)
	metadataHandler := handler.NewMetadataHandler(cfg.StationRepo, cfg.StationService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.StationService, cfg.TripCache, cfg.RoutingService, cfg.Logger)

	// Admin token middleware
	adminAuth := middleware.AdminToken(cfg.AdminToken)

	// Create rate limit middleware for different endpoint categories
	adminRateLimit := middleware.RateLimitByIP(middleware.AdminRateLimit)         // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(standardRateLimit).Get("/status", opsHandler.SystemStatus)
		})

		// Trip planning - calls external providers, strict rate limiting
		r.Route("/trip", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/plan", tripHandler.PlanTrip)
			r.Post("/plan", tripHandler.PlanTrip)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/assumptions", metadataHandler.GetAssumptions)
			r.Get("/stations", metadataHandler.GetStationStats)
		})

		// Admin endpoints (token-protected) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminRateLimit)
			r.Use(adminAuth)
			r.Post("/stations/refresh", adminHandler.RefreshStations)
			r.Post("/cache/invalidate", adminHandler.InvalidateCaches)
		})
	})

	return r
}
