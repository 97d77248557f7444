package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	repo     station.Repository
	stations *station.Service
	logger   zerolog.Logger
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(repo station.Repository, stations *station.Service, logger zerolog.Logger) *MetadataHandler {
	return &MetadataHandler{
		repo:     repo,
		stations: stations,
		logger:   logger.With().Str("component", "metadata_handler").Logger(),
	}
}

// GetAssumptions handles GET /v1/metadata/assumptions - the fixed planning
// constants applied to every trip.
func (h *MetadataHandler) GetAssumptions(w http.ResponseWriter, r *http.Request) {
	assumptions := models.PlanningAssumptions{
		VehicleRangeMiles:   planner.VehicleRangeMiles,
		MPG:                 planner.MilesPerGallon,
		CorridorRadiusMiles: planner.CorridorRadiusMiles,
		TripCacheTTLSeconds: int(tripcache.DefaultTTL.Seconds()),
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, assumptions)
}

// GetStationStats handles GET /v1/metadata/stations - dataset statistics.
func (h *MetadataHandler) GetStationStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.Counts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load station counts")
		response.InternalError(w, r, "failed to load station statistics")
		return
	}

	stats := models.StationStats{
		TotalStations:      counts.Total,
		WithCoordinates:    counts.WithCoords,
		MissingCoordinates: counts.MissingBoth,
	}

	if h.stations != nil {
		if snapshot := h.stations.CacheStatus(); snapshot.HasData {
			loadedAt := models.Timestamp(snapshot.LoadedAt)
			stats.SnapshotLoadedAt = &loadedAt
		}
	}

	response.JSON(w, r, http.StatusOK, stats)
}
