package station

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the station snapshot service.
type ServiceConfig struct {
	// Repository is the station data source.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long a snapshot stays fresh (default: 10 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving a stale snapshot on repository errors
	// (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service owns the station snapshot. A snapshot is loaded whole and replaced
// whole, so the planner never observes a partially-updated dataset.
type Service struct {
	repo            Repository
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu          sync.RWMutex
	snapshot    *Snapshot
	cacheExpiry time.Time
}

// NewService creates a new station snapshot service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = time.Hour
	}

	return &Service{
		repo:            cfg.Repository,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
	}
}

// Snapshot returns the current station snapshot, loading it from the
// repository if the cached one has expired.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Now().Before(s.cacheExpiry) {
		snapshot := s.snapshot
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	return s.refresh(ctx)
}

// Refresh forces a snapshot reload regardless of expiry.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.cacheExpiry = time.Time{}
	s.mu.Unlock()

	_, err := s.refresh(ctx)
	return err
}

// Invalidate clears the cached snapshot.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.cacheExpiry = time.Time{}
}

// CacheStatus returns information about the current snapshot state.
func (s *Service) CacheStatus() CacheStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return CacheStatus{HasData: false}
	}

	now := time.Now()
	return CacheStatus{
		HasData:      true,
		LoadedAt:     s.snapshot.LoadedAt,
		ExpiresAt:    s.cacheExpiry,
		IsExpired:    now.After(s.cacheExpiry),
		IsStale:      now.After(s.snapshot.LoadedAt.Add(s.staleIfErrorTTL)),
		StationCount: len(s.snapshot.Stations),
	}
}

// CacheStatus represents the current state of the snapshot cache.
type CacheStatus struct {
	HasData      bool
	LoadedAt     time.Time
	ExpiresAt    time.Time
	IsExpired    bool
	IsStale      bool
	StationCount int
}

// refresh loads a fresh snapshot from the repository.
func (s *Service) refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check: another goroutine might have refreshed while we waited.
	if s.snapshot != nil && time.Now().Before(s.cacheExpiry) {
		return s.snapshot, nil
	}

	s.logger.Debug().Msg("loading station snapshot")

	stations, err := s.repo.EligibleStations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load station snapshot")

		// Serve stale data if it is not too old.
		if s.snapshot != nil && time.Now().Before(s.snapshot.LoadedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("loaded_at", s.snapshot.LoadedAt).
				Msg("serving stale station snapshot due to repository error")
			return s.snapshot, nil
		}

		return nil, ErrSnapshotUnavailable
	}

	s.snapshot = &Snapshot{
		Stations: stations,
		LoadedAt: time.Now(),
	}
	s.cacheExpiry = time.Now().Add(s.cacheTTL)

	s.logger.Info().
		Int("stations", len(stations)).
		Time("expires_at", s.cacheExpiry).
		Msg("station snapshot loaded")

	return s.snapshot, nil
}
