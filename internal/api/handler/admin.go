package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

// StationRefresher forces a reload of the station snapshot.
type StationRefresher interface {
	Refresh(ctx context.Context) error
}

// RouteCacheInvalidator drops cached routes.
type RouteCacheInvalidator interface {
	InvalidateCache()
}

// AdminHandler handles operator endpoints. All routes are behind the
// admin token middleware.
type AdminHandler struct {
	stations   StationRefresher
	tripCache  tripcache.Cache
	routeCache RouteCacheInvalidator
	logger     zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(stations StationRefresher, tripCache tripcache.Cache, routeCache RouteCacheInvalidator, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		stations:   stations,
		tripCache:  tripCache,
		routeCache: routeCache,
		logger:     logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RefreshStations handles POST /v1/admin/stations/refresh - force a
// station snapshot reload.
func (h *AdminHandler) RefreshStations(w http.ResponseWriter, r *http.Request) {
	if err := h.stations.Refresh(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("station snapshot refresh failed")
		response.InternalError(w, r, "station snapshot refresh failed")
		return
	}

	h.logger.Info().Msg("station snapshot refreshed")
	response.Accepted(w, r, map[string]string{"status": "refreshed"})
}

// InvalidateCaches handles POST /v1/admin/cache/invalidate - drop cached
// trip plans and routes so the next requests replan from scratch.
func (h *AdminHandler) InvalidateCaches(w http.ResponseWriter, r *http.Request) {
	if h.routeCache != nil {
		h.routeCache.InvalidateCache()
	}

	if h.tripCache != nil {
		if err := h.tripCache.Invalidate(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("trip cache invalidation failed")
			response.InternalError(w, r, "trip cache invalidation failed")
			return
		}
	}

	h.logger.Info().Msg("caches invalidated")
	response.NoContent(w, r)
}
