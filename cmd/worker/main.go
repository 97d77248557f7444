// Package main provides the entrypoint for the FuelRoute background worker.
//
// The worker keeps the station dataset fresh: it geocodes stations that are
// missing coordinates and reloads the station snapshot on a fixed interval.
// A refresh can also be triggered out of band via Pub/Sub.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/geocode/opencage"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fuelroute-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FuelRoute worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	registry := resilience.NewRegistry()

	geocoder := opencage.NewClient(opencage.ClientConfig{
		APIKey:   os.Getenv("OPENCAGE_API_KEY"),
		Registry: registry,
		Logger:   log,
	})

	stationRepo := station.NewPostgresRepository(pool)
	stationService := station.NewService(station.ServiceConfig{
		Repository: stationRepo,
		Logger:     log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:     worker.DefaultRefreshConfig(),
		Logger:     log,
		Repository: stationRepo,
		Geocoder:   geocoder,
		Snapshot:   stationService,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Optional Pub/Sub trigger for out-of-band refreshes
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if projectID != "" && subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub not configured, running on interval only")
	}

	// Interval refresh loop. The first run happens immediately so a fresh
	// deploy does not wait a full interval for coordinates.
	go func() {
		runRefresh(ctx, refreshJob, log)

		ticker := time.NewTicker(refreshJob.Interval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runRefresh(ctx, refreshJob, log)
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func runRefresh(ctx context.Context, job *worker.RefreshJob, log zerolog.Logger) {
	result := job.Run(ctx)

	log.Info().
		Dur("duration", result.Duration).
		Int("candidates", result.Candidates).
		Int("geocoded", result.Geocoded).
		Int("geocode_failed", result.GeocodeFailed).
		Bool("snapshot_refreshed", result.SnapshotRefreshed).
		Int("errors", len(result.Errors)).
		Msg("station refresh finished")
}
