// Package planner assembles fuel-optimized trip plans: it maps fuel
// stations onto a driving route, places refueling waypoints at tank-range
// intervals, and picks the cheapest workable station for each waypoint.
package planner

import (
	"fmt"
	"strings"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Planning assumptions. These are fixed for the vehicle profile the
// service models and are reported back on every plan.
const (
	// MilesPerGallon is the assumed fuel economy.
	MilesPerGallon = 10.0

	// VehicleRangeMiles is the assumed maximum range on a full tank.
	VehicleRangeMiles = 500.0

	// CorridorRadiusMiles is the maximum detour from the route for a
	// station to be considered at all.
	CorridorRadiusMiles = 25.0

	// DetourWeight converts detour miles into score units.
	DetourWeight = 0.04

	// MarkerWeight converts distance-from-marker miles into score units.
	MarkerWeight = 0.002

	// backtrackToleranceMiles is how far behind the previous marker a
	// station may sit and still be selectable.
	backtrackToleranceMiles = 40.0

	// bboxSlackMiles widens the corridor bounding box prefilter beyond
	// the corridor radius so nearest-point sampling error cannot drop
	// borderline stations.
	bboxSlackMiles = 20.0

	// downsampleTarget caps how many route points the corridor indexer
	// compares each station against.
	downsampleTarget = 800

	// MetersPerMile converts provider distances to miles.
	MetersPerMile = 1609.344
)

// selectionWindowsMiles are tried in order when matching a station to a
// waypoint marker. Narrow first, widening only when nothing fits.
var selectionWindowsMiles = [...]float64{60.0, 120.0, 200.0, 320.0}

// MappedStation is a fuel station projected onto the route corridor.
type MappedStation struct {
	Name           string
	City           string
	State          string
	PricePerGallon float64
	Lat            float64
	Lon            float64

	// RouteMile is the cumulative route mileage of the nearest sampled
	// route point.
	RouteMile float64

	// DetourMiles is the straight-line distance from the station to
	// that route point.
	DetourMiles float64
}

// SelectedStation is the station detail attached to a filled fuel stop.
type SelectedStation struct {
	Name           string  `json:"name"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Lat            float64 `json:"latitude"`
	Lon            float64 `json:"longitude"`
	DetourMiles    float64 `json:"distance_to_route_miles"`
	PricePerGallon float64 `json:"price_per_gallon_usd"`
}

// FuelStop is one planned stop. A stop without a station is a gap: no
// usable station existed near that stretch of the route, and Note says so.
type FuelStop struct {
	Order           int     `json:"order"`
	RouteMileMarker float64 `json:"route_mile_marker"`
	SegmentMiles    float64 `json:"segment_distance_miles"`

	Station     *SelectedStation `json:"station,omitempty"`
	Gallons     float64          `json:"gallons_purchased,omitempty"`
	SegmentCost float64          `json:"segment_cost_usd,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// IsGap reports whether no station could be matched to this stop.
func (s FuelStop) IsGap() bool {
	return s.Station == nil
}

// Endpoint pairs the caller's raw input with the resolved coordinates.
type Endpoint struct {
	Input       string    `json:"input"`
	Coordinates geo.Point `json:"coordinates"`
}

// Assumptions echoes the planning constants applied to a plan.
type Assumptions struct {
	VehicleRangeMiles   float64 `json:"vehicle_range_miles"`
	MPG                 float64 `json:"mpg"`
	StartWithFullTank   bool    `json:"start_with_full_tank"`
	CorridorRadiusMiles float64 `json:"corridor_radius_miles"`
}

// Summary aggregates the cost and distance figures for a plan.
type Summary struct {
	TotalDistanceMiles        float64 `json:"total_distance_miles"`
	TotalFuelConsumedGallons  float64 `json:"total_fuel_consumed_gallons"`
	TotalFuelPurchasedGallons float64 `json:"total_fuel_purchased_gallons"`
	TotalFuelCostUSD          float64 `json:"total_fuel_cost_usd"`
	NumberOfFuelStops         int     `json:"number_of_fuel_stops"`
}

// Warnings flags degraded results. A plan with gaps still succeeds.
type Warnings struct {
	MissingStationMarkersMiles []float64 `json:"missing_station_markers_miles"`
	Message                    string    `json:"message"`
}

// MapLinks holds external map URLs for the start-finish pair.
type MapLinks struct {
	OpenStreetMapDirections string `json:"openstreetmap_directions"`
	GoogleMapsDirections    string `json:"google_maps_directions"`
}

// TripPlan is the full planning result. RoutePolyline is retained for
// internal consumers (map rendering, cache) and must not be exposed on
// public API payloads.
type TripPlan struct {
	Start       Endpoint    `json:"start"`
	Finish      Endpoint    `json:"finish"`
	Assumptions Assumptions `json:"assumptions"`
	Summary     Summary     `json:"summary"`
	FuelStops   []FuelStop  `json:"fuel_stops"`
	Warnings    *Warnings   `json:"warnings,omitempty"`
	StartEndMap MapLinks    `json:"start_end_map"`

	RoutePolyline string `json:"route_polyline,omitempty"`
}

// PlanRequest carries the raw trip inputs. Start and Finish are free
// text: a US address, or a coordinate pair in any of the accepted
// encodings.
type PlanRequest struct {
	Start             string
	Finish            string
	StartWithFullTank bool
}

// ErrorKind classifies a planning failure for HTTP mapping.
type ErrorKind int

const (
	// ErrorKindClient means the request itself is unusable.
	ErrorKindClient ErrorKind = iota

	// ErrorKindDependency means an upstream provider failed.
	ErrorKindDependency
)

// PlanError is a planning failure with enough context to map to a
// response status.
type PlanError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	return e.Message
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

func newClientError(message string) *PlanError {
	return &PlanError{Kind: ErrorKindClient, Message: message}
}

func newDependencyError(message string, err error) *PlanError {
	return &PlanError{Kind: ErrorKindDependency, Message: message, Err: err}
}

// CacheKey derives the trip cache key from the raw inputs. Text inputs
// are trimmed so that padding differences do not fragment the cache.
func CacheKey(start, finish string, fullTank bool) string {
	tank := 0
	if fullTank {
		tank = 1
	}
	return fmt.Sprintf("trip:v2:%s:%s:%d", strings.TrimSpace(start), strings.TrimSpace(finish), tank)
}
