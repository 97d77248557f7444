// Package main provides the entrypoint for the FuelRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/geocode/opencage"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/routing/openrouteservice"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/telemetry"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fuelroute-api"

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FuelRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
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

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Provider registry for circuit breaker health reporting
	registry := resilience.NewRegistry()

	// Geocoding provider
	geocoder := opencage.NewClient(opencage.ClientConfig{
		APIKey:   os.Getenv("OPENCAGE_API_KEY"),
		Registry: registry,
		Logger:   log,
	})

	// Routing provider with route caching
	orsClient := openrouteservice.NewClient(openrouteservice.ClientConfig{
		APIKey:   os.Getenv("ORS_API_KEY"),
		Registry: registry,
		Logger:   log,
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: orsClient,
		Logger:   log,
	})

	// Station snapshot service
	stationRepo := station.NewPostgresRepository(pool)
	stationService := station.NewService(station.ServiceConfig{
		Repository: stationRepo,
		Logger:     log,
	})

	// Trip cache: Redis when configured, in-process otherwise
	var tripCache tripcache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		tripCache = tripcache.NewRedisCache(tripcache.RedisCacheConfig{
			Client: redisClient,
			Logger: log,
		})
		log.Info().Str("addr", redisAddr).Msg("using redis trip cache")
	} else {
		tripCache = tripcache.NewMemoryCache()
		log.Info().Msg("using in-memory trip cache")
	}

	// Trip planner
	tripPlanner := planner.New(planner.Config{
		Geocoder: geocoder,
		Router:   routingService,
		Stations: stationService,
		Logger:   log,
	})
	log.Info().Msg("trip planner initialized")

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN not set - admin endpoints are disabled")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Planner:        tripPlanner,
		TripCache:      tripCache,
		StationService: stationService,
		StationRepo:    stationRepo,
		RoutingService: routingService,
		Providers:      registry,
		DB:             pool,
		AdminToken:     adminToken,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
