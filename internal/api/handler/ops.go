// Package handler provides HTTP handlers for the FuelRoute API.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/station"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsConfig holds the dependencies the operational endpoints report on.
type OpsConfig struct {
	Version   string
	BuildTime string

	// DB is the database pool, or nil when running without one.
	DB Pinger

	// Providers is the external provider registry.
	Providers *resilience.Registry

	// Stations reports the station snapshot state.
	Stations *station.Service

	// Routes reports the route cache state.
	Routes *routing.Service
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.cfg.DB.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: h.subsystemStatuses(r.Context()),
		Providers:  h.providerStatuses(),
	}

	for _, s := range status.Subsystems {
		if s.Status == models.HealthStatusFail {
			status.Status = models.HealthStatusDegraded
		}
	}
	for _, p := range status.Providers {
		if p.Status != models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) subsystemStatuses(ctx context.Context) []models.SubsystemStatus {
	var subsystems []models.SubsystemStatus

	if h.cfg.DB != nil {
		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := h.cfg.DB.Ping(pingCtx); err != nil {
			dbStatus.Status = models.HealthStatusFail
			detail := err.Error()
			dbStatus.Detail = &detail
		}
		cancel()

		subsystems = append(subsystems, dbStatus)
	}

	if h.cfg.Stations != nil {
		snapshot := h.cfg.Stations.CacheStatus()
		stationStatus := models.SubsystemStatus{Name: "station-snapshot", Status: models.HealthStatusOK}
		switch {
		case !snapshot.HasData:
			stationStatus.Status = models.HealthStatusFail
			detail := "no snapshot loaded"
			stationStatus.Detail = &detail
		case snapshot.IsStale:
			stationStatus.Status = models.HealthStatusDegraded
			detail := "snapshot is stale"
			stationStatus.Detail = &detail
		}
		subsystems = append(subsystems, stationStatus)
	}

	if h.cfg.Routes != nil {
		stats := h.cfg.Routes.CacheStats()
		detail := routeCacheDetail(stats)
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "route-cache",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	return subsystems
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	if h.cfg.Providers == nil {
		return nil
	}

	var providers []models.ProviderStatus
	for _, health := range h.cfg.Providers.GetAllHealth() {
		status := models.HealthStatusOK
		if health.IsDegraded() {
			status = models.HealthStatusDegraded
		}
		if health.IsUnhealthy() {
			status = models.HealthStatusFail
		}

		p := models.ProviderStatus{
			Provider: health.Name,
			Status:   status,
		}
		if health.LastSuccessAt != nil {
			ts := models.Timestamp(*health.LastSuccessAt)
			p.LastSuccessAt = &ts
		}
		if health.LastFailureAt != nil {
			ts := models.Timestamp(*health.LastFailureAt)
			p.LastFailureAt = &ts
		}
		if health.LastError != "" {
			msg := health.LastError
			p.Message = &msg
		}

		providers = append(providers, p)
	}

	return providers
}

func routeCacheDetail(stats routing.CacheStats) string {
	return fmt.Sprintf("entries: %d, fresh: %d", stats.TotalEntries, stats.FreshEntries)
}
