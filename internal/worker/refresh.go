package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geocode"
	"github.com/fuelroute/fuelroute/internal/station"
)

// SnapshotRefresher forces a reload of the station snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob backfills coordinates for ungeocoded stations and refreshes
// the station snapshot so new coordinates become plannable.
type RefreshJob struct {
	config     RefreshConfig
	logger     zerolog.Logger
	repository station.Repository
	geocoder   geocode.Resolver
	snapshot   SnapshotRefresher

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns        int64
	SnapshotReloads  int64
	StationsGeocoded int64
	GeocodeFailures  int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config     RefreshConfig
	Logger     zerolog.Logger
	Repository station.Repository
	Geocoder   geocode.Resolver
	Snapshot   SnapshotRefresher
}

// NewRefreshJob creates a new refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:     cfg.Config.withDefaults(),
		logger:     cfg.Logger,
		repository: cfg.Repository,
		geocoder:   cfg.Geocoder,
		snapshot:   cfg.Snapshot,
		metrics:    &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one run.
type RefreshResult struct {
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	Candidates        int
	Geocoded          int
	GeocodeFailed     int
	SnapshotRefreshed bool
	Errors            []RefreshError
}

// RefreshError records a per-station failure during a run.
type RefreshError struct {
	StationID int64
	Stage     string
	Error     string
}

// Interval returns how often the job should run.
func (j *RefreshJob) Interval() time.Duration {
	return j.config.Interval
}

// Run executes one refresh pass: geocode a batch of stations missing
// coordinates, then reload the snapshot. Geocoding failures are recorded
// and skipped; only a snapshot reload failure fails the run as a whole.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{StartTime: startTime}

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	j.logger.Info().
		Int("geocode_batch_limit", j.config.GeocodeBatchLimit).
		Msg("starting station refresh job")

	j.backfillCoordinates(runCtx, result)

	if err := j.snapshot.Refresh(runCtx); err != nil {
		j.logger.Error().Err(err).Msg("station snapshot reload failed")
		result.Errors = append(result.Errors, RefreshError{Stage: "snapshot", Error: err.Error()})
	} else {
		result.SnapshotRefreshed = true
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("candidates", result.Candidates).
		Int("geocoded", result.Geocoded).
		Int("geocode_failed", result.GeocodeFailed).
		Bool("snapshot_refreshed", result.SnapshotRefreshed).
		Msg("station refresh job completed")

	return result
}

func (j *RefreshJob) backfillCoordinates(ctx context.Context, result *RefreshResult) {
	records, err := j.repository.MissingCoordinates(ctx, j.config.GeocodeBatchLimit)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list stations missing coordinates")
		result.Errors = append(result.Errors, RefreshError{Stage: "list", Error: err.Error()})
		return
	}
	result.Candidates = len(records)
	if len(records) == 0 {
		return
	}

	for i, record := range records {
		if ctx.Err() != nil {
			return
		}

		point, err := j.geocoder.Resolve(ctx, geocodeAddress(record))
		if err != nil {
			result.GeocodeFailed++
			result.Errors = append(result.Errors, RefreshError{
				StationID: record.ID,
				Stage:     "geocode",
				Error:     err.Error(),
			})
			j.logger.Warn().Err(err).Int64("station_id", record.ID).Msg("geocoding failed")
			j.pause(ctx, i, len(records))
			continue
		}

		if err := j.repository.UpdateCoordinates(ctx, record.ID, point.Lat, point.Lon); err != nil {
			if !errors.Is(err, station.ErrStationNotFound) {
				result.Errors = append(result.Errors, RefreshError{
					StationID: record.ID,
					Stage:     "store",
					Error:     err.Error(),
				})
			}
			result.GeocodeFailed++
			j.pause(ctx, i, len(records))
			continue
		}

		result.Geocoded++
		j.logger.Debug().
			Int64("station_id", record.ID).
			Float64("lat", point.Lat).
			Float64("lon", point.Lon).
			Msg("station geocoded")
		j.pause(ctx, i, len(records))
	}
}

// pause sleeps between geocoding calls except after the last one.
func (j *RefreshJob) pause(ctx context.Context, index, total int) {
	if index >= total-1 || j.config.GeocodeSleep <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(j.config.GeocodeSleep):
	}
}

// geocodeAddress builds the lookup string for a station record.
func geocodeAddress(record station.Record) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{record.Address, record.City, record.State, "USA"} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if result.SnapshotRefreshed {
		j.metrics.SnapshotReloads++
	}
	j.metrics.StationsGeocoded += int64(result.Geocoded)
	j.metrics.GeocodeFailures += int64(result.GeocodeFailed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		SnapshotReloads:  j.metrics.SnapshotReloads,
		StationsGeocoded: j.metrics.StationsGeocoded,
		GeocodeFailures:  j.metrics.GeocodeFailures,
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}
