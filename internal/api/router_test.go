package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/api"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/tripcache"
)

const testAdminToken = "test-admin-token"

type stubPlanner struct {
	plan  *planner.TripPlan
	err   error
	calls atomic.Int64
}

func (s *stubPlanner) Plan(_ context.Context, _ planner.PlanRequest) (*planner.TripPlan, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.plan, nil
}

type stubRouteProvider struct{}

func (stubRouteProvider) GetRoute(_ context.Context, _ routing.RouteRequest) (*routing.RouteResponse, error) {
	return &routing.RouteResponse{DistanceMeters: 1000}, nil
}

func (stubRouteProvider) Name() string { return "stub" }

func samplePlan() *planner.TripPlan {
	return &planner.TripPlan{
		Start: planner.Endpoint{
			Input:       "Los Angeles, CA",
			Coordinates: geo.Point{Lat: 34.05, Lon: -118.24},
		},
		Finish: planner.Endpoint{
			Input:       "Memphis, TN",
			Coordinates: geo.Point{Lat: 35.15, Lon: -90.05},
		},
		Assumptions: planner.Assumptions{
			VehicleRangeMiles:   500,
			MPG:                 10,
			StartWithFullTank:   false,
			CorridorRadiusMiles: 25,
		},
		Summary: planner.Summary{
			TotalDistanceMiles:        1697.8,
			TotalFuelConsumedGallons:  169.78,
			TotalFuelPurchasedGallons: 169.78,
			TotalFuelCostUSD:          550.25,
			NumberOfFuelStops:         4,
		},
		FuelStops: []planner.FuelStop{
			{
				Order:           1,
				RouteMileMarker: 0,
				SegmentMiles:    500,
				Station: &planner.SelectedStation{
					Name:           "Flying J",
					City:           "Bakersfield",
					State:          "CA",
					Lat:            35.37,
					Lon:            -119.02,
					DetourMiles:    8.2,
					PricePerGallon: 3.199,
				},
				Gallons:     50,
				SegmentCost: 159.95,
			},
		},
		StartEndMap: planner.MapLinks{
			OpenStreetMapDirections: "https://www.openstreetmap.org/directions?engine=fossgis_osrm_car&route=34.05%2C-118.24%3B35.15%2C-90.05",
			GoogleMapsDirections:    "https://www.google.com/maps/dir/?api=1&origin=34.05%2C-118.24&destination=35.15%2C-90.05&travelmode=driving",
		},
		RoutePolyline: "mock-encoded-geometry",
	}
}

func newTestRouter(t *testing.T, p *stubPlanner) http.Handler {
	t.Helper()

	repo := station.NewInMemoryRepository(
		station.Station{Name: "Flying J", City: "Bakersfield", State: "CA", PricePerGallon: 3.199, Lat: 35.37, Lon: -119.02},
	)
	stationService := station.NewService(station.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: stubRouteProvider{},
		Logger:   zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "now",
		Logger:         zerolog.Nop(),
		Planner:        p,
		TripCache:      tripcache.NewMemoryCache(),
		StationService: stationService,
		StationRepo:    repo,
		RoutingService: routingService,
		Providers:      resilience.NewRegistry(),
		AdminToken:     testAdminToken,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Ready(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Status(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Status     string `json:"status"`
		Subsystems []struct {
			Name string `json:"name"`
		} `json:"subsystems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	names := make([]string, 0, len(status.Subsystems))
	for _, s := range status.Subsystems {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "station-snapshot")
	assert.Contains(t, names, "route-cache")
}

func TestRouter_PlanTrip_Get(t *testing.T) {
	p := &stubPlanner{plan: samplePlan()}
	router := newTestRouter(t, p)

	req := httptest.NewRequest(http.MethodGet, "/v1/trip/plan?start=Los+Angeles,+CA&finish=Memphis,+TN", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var resp struct {
		Summary struct {
			NumberOfFuelStops int `json:"number_of_fuel_stops"`
		} `json:"summary"`
		FuelStops []struct {
			Name string `json:"name"`
		} `json:"fuel_stops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Summary.NumberOfFuelStops)
	require.Len(t, resp.FuelStops, 1)
	assert.Equal(t, "Flying J", resp.FuelStops[0].Name)

	// The encoded route geometry never leaves the service.
	assert.NotContains(t, rec.Body.String(), "route_polyline")
}

func TestRouter_PlanTrip_SecondRequestServedFromCache(t *testing.T) {
	p := &stubPlanner{plan: samplePlan()}
	router := newTestRouter(t, p)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/trip/plan?start=Los+Angeles,+CA&finish=Memphis,+TN", http.NoBody)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		if i == 1 {
			assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
		}
	}

	assert.Equal(t, int64(1), p.calls.Load())
}

func TestRouter_PlanTrip_Post(t *testing.T) {
	p := &stubPlanner{plan: samplePlan()}
	router := newTestRouter(t, p)

	body := `{"start": "Los Angeles, CA", "end": [-90.05, 35.15], "start_with_full_tank": "1"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/trip/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), p.calls.Load())
}

func TestRouter_PlanTrip_MissingParams(t *testing.T) {
	p := &stubPlanner{plan: samplePlan()}
	router := newTestRouter(t, p)

	req := httptest.NewRequest(http.MethodGet, "/v1/trip/plan?start=Los+Angeles,+CA", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "finish")
	assert.Equal(t, int64(0), p.calls.Load(), "validation failures must not invoke the planner")
}

func TestRouter_PlanTrip_DependencyFailure(t *testing.T) {
	p := &stubPlanner{err: &planner.PlanError{
		Kind:    planner.ErrorKindDependency,
		Message: "route service failed, check provider status and try again",
	}}
	router := newTestRouter(t, p)

	req := httptest.NewRequest(http.MethodGet, "/v1/trip/plan?start=A&finish=B", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "route service failed")
}

func TestRouter_PlanTrip_ClientError(t *testing.T) {
	p := &stubPlanner{err: &planner.PlanError{
		Kind:    planner.ErrorKindClient,
		Message: "start and finish must be locations within the USA",
	}}
	router := newTestRouter(t, p)

	req := httptest.NewRequest(http.MethodGet, "/v1/trip/plan?start=Paris&finish=Berlin", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "within the USA")
}

func TestRouter_MetadataAssumptions(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/assumptions", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var assumptions struct {
		VehicleRangeMiles   float64 `json:"vehicle_range_miles"`
		MPG                 float64 `json:"mpg"`
		CorridorRadiusMiles float64 `json:"corridor_radius_miles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assumptions))
	assert.Equal(t, 500.0, assumptions.VehicleRangeMiles)
	assert.Equal(t, 10.0, assumptions.MPG)
	assert.Equal(t, 25.0, assumptions.CorridorRadiusMiles)
}

func TestRouter_MetadataStations(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/stations", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalStations   int `json:"total_stations"`
		WithCoordinates int `json:"with_coordinates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalStations)
	assert.Equal(t, 1, stats.WithCoordinates)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/stations/refresh", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminRefreshStations(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/stations/refresh", http.NoBody)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "refreshed")
}

func TestRouter_AdminInvalidateCaches(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/cache/invalidate", http.NoBody)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_UnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/does-not-exist", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(t, &stubPlanner{plan: samplePlan()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
