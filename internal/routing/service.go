package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache routes (default: 15 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.01 ~ 1.1km).
	// Endpoints within the same grid cell share cached routes.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 15 minutes).
	CleanupInterval time.Duration
}

// Service provides driving routes with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedRoute
	lastCleanup time.Time
}

type cachedRoute struct {
	response  *RouteResponse
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.01 // ~1.1km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 15 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedRoute),
	}
}

// GetRoute returns a driving route between two points.
// Uses cached data if available and not expired.
func (s *Service) GetRoute(ctx context.Context, req RouteRequest) (*RouteResponse, error) {
	if err := validateCoordinates(req.Origin); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if err := validateCoordinates(req.Destination); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	cacheKey := s.cacheKey(req)

	// Check cache (read lock)
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for route")
		return cached.response, nil
	}
	s.mu.RUnlock()

	return s.fetchRoute(ctx, req, cacheKey)
}

// fetchRoute fetches a route from the provider and updates the cache.
func (s *Service) fetchRoute(ctx context.Context, req RouteRequest, cacheKey string) (*RouteResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit after double-check")
		return cached.response, nil
	}

	s.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Str("provider", s.provider.Name()).
		Msg("fetching route from provider")

	resp, err := s.provider.GetRoute(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("origin_lat", req.Origin.Lat).
			Float64("origin_lon", req.Origin.Lon).
			Float64("dest_lat", req.Destination.Lat).
			Float64("dest_lon", req.Destination.Lon).
			Msg("failed to fetch route")

		// Check for stale data (stale-if-error pattern)
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", cacheKey).
					Msg("serving stale route due to provider error")
				return cached.response, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[cacheKey] = &cachedRoute{
		response:  resp,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", cacheKey).
		Float64("distance_m", resp.DistanceMeters).
		Int("points", len(resp.Points)).
		Msg("cached route response")

	s.cleanupIfNeeded()

	return resp, nil
}

// cacheKey generates a cache key for a route request.
// Uses grid-based quantization for both origin and destination.
// Format: {gridOriginLat},{gridOriginLon}:{gridDestLat},{gridDestLon}.
func (s *Service) cacheKey(req RouteRequest) string {
	gridOriginLat := math.Floor(req.Origin.Lat/s.cacheGridSize) * s.cacheGridSize
	gridOriginLon := math.Floor(req.Origin.Lon/s.cacheGridSize) * s.cacheGridSize
	gridDestLat := math.Floor(req.Destination.Lat/s.cacheGridSize) * s.cacheGridSize
	gridDestLon := math.Floor(req.Destination.Lon/s.cacheGridSize) * s.cacheGridSize

	return fmt.Sprintf("%.2f,%.2f:%.2f,%.2f",
		gridOriginLat, gridOriginLon,
		gridDestLat, gridDestLon,
	)
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		// Remove entries that are past the stale-if-error window
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired route cache entries")
	}
}

// InvalidateCache clears all cached routes.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedRoute)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validateCoordinates checks if coordinates are within valid ranges.
func validateCoordinates(p geo.Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Lon)
	}
	return nil
}
