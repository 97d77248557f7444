package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/geocode"
	"github.com/fuelroute/fuelroute/internal/routing"
	"github.com/fuelroute/fuelroute/internal/station"
)

// RouteFetcher retrieves a driving route between two points.
type RouteFetcher interface {
	GetRoute(ctx context.Context, req routing.RouteRequest) (*routing.RouteResponse, error)
}

// StationSource provides the current fuel station snapshot.
type StationSource interface {
	Snapshot(ctx context.Context) (*station.Snapshot, error)
}

// Config holds the collaborators a Planner needs.
type Config struct {
	// Geocoder resolves address text to coordinates.
	Geocoder geocode.Resolver

	// Router fetches driving routes.
	Router RouteFetcher

	// Stations provides the station snapshot.
	Stations StationSource

	// Logger for planning operations.
	Logger zerolog.Logger
}

// Planner assembles trip plans from routes, stations, and waypoints.
type Planner struct {
	geocoder geocode.Resolver
	router   RouteFetcher
	stations StationSource
	logger   zerolog.Logger
}

// New creates a Planner.
func New(cfg Config) *Planner {
	return &Planner{
		geocoder: cfg.Geocoder,
		router:   cfg.Router,
		stations: cfg.Stations,
		logger:   cfg.Logger.With().Str("component", "planner").Logger(),
	}
}

// Plan builds a fuel-optimized trip plan. Failures are returned as
// *PlanError so the HTTP layer can distinguish bad requests from
// upstream outages. A shortage of stations is not a failure: affected
// stops become gaps and the plan carries a warning.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*TripPlan, error) {
	start, err := p.resolveEndpoint(ctx, req.Start)
	if err != nil {
		return nil, err
	}
	finish, err := p.resolveEndpoint(ctx, req.Finish)
	if err != nil {
		return nil, err
	}

	if !isProbablyUS(start) || !isProbablyUS(finish) {
		return nil, newClientError("start and finish must be locations within the USA")
	}

	route, err := p.router.GetRoute(ctx, routing.RouteRequest{Origin: start, Destination: finish})
	if err != nil {
		p.logger.Error().Err(err).Msg("route lookup failed")
		return nil, newDependencyError("route service failed, check provider status and try again", err)
	}

	points := route.Points
	if len(points) == 0 {
		// Straight-line fallback still yields a usable plan.
		points = []geo.Point{start, finish}
	}
	cumulative := geo.CumulativeMiles(points)
	totalMiles := cumulative[len(cumulative)-1]
	if totalMiles <= 0 && route.DistanceMeters > 0 {
		totalMiles = route.DistanceMeters / MetersPerMile
	}

	var stationList []station.Station
	if snap, snapErr := p.stations.Snapshot(ctx); snapErr != nil {
		p.logger.Warn().Err(snapErr).Msg("station snapshot unavailable, planning with gaps")
	} else {
		stationList = snap.Stations
	}

	mapped := MapStationsToRoute(points, cumulative, stationList)
	markers := Markers(totalMiles, req.StartWithFullTank)

	stops := make([]FuelStop, 0, len(markers))
	totalCost := 0.0
	previousMarker := -VehicleRangeMiles
	var missingMarkers []float64

	for i, marker := range markers {
		segment := math.Min(VehicleRangeMiles, totalMiles-marker)
		if segment <= 0 {
			continue
		}

		selected := SelectStation(mapped, marker, previousMarker)
		previousMarker = marker

		if selected == nil {
			missingMarkers = append(missingMarkers, round2(marker))
			stops = append(stops, FuelStop{
				Order:           i + 1,
				RouteMileMarker: round2(marker),
				SegmentMiles:    round2(segment),
				Note:            "No geocoded station found near this route segment.",
			})
			continue
		}

		gallons := segment / MilesPerGallon
		segmentCost := gallons * selected.PricePerGallon
		totalCost += segmentCost

		stops = append(stops, FuelStop{
			Order:           i + 1,
			RouteMileMarker: round2(marker),
			SegmentMiles:    round2(segment),
			Station: &SelectedStation{
				Name:           selected.Name,
				City:           selected.City,
				State:          selected.State,
				Lat:            selected.Lat,
				Lon:            selected.Lon,
				DetourMiles:    round2(selected.DetourMiles),
				PricePerGallon: round3(selected.PricePerGallon),
			},
			Gallons:     round2(gallons),
			SegmentCost: round2(segmentCost),
		})
	}

	initialRange := 0.0
	if req.StartWithFullTank {
		initialRange = VehicleRangeMiles
	}
	purchasedGallons := math.Max(totalMiles-initialRange, 0) / MilesPerGallon

	filledStops := 0
	for _, stop := range stops {
		if !stop.IsGap() {
			filledStops++
		}
	}

	plan := &TripPlan{
		Start:  Endpoint{Input: req.Start, Coordinates: start},
		Finish: Endpoint{Input: req.Finish, Coordinates: finish},
		Assumptions: Assumptions{
			VehicleRangeMiles:   VehicleRangeMiles,
			MPG:                 MilesPerGallon,
			StartWithFullTank:   req.StartWithFullTank,
			CorridorRadiusMiles: CorridorRadiusMiles,
		},
		Summary: Summary{
			TotalDistanceMiles:        round2(totalMiles),
			TotalFuelConsumedGallons:  round2(totalMiles / MilesPerGallon),
			TotalFuelPurchasedGallons: round2(purchasedGallons),
			TotalFuelCostUSD:          round2(totalCost),
			NumberOfFuelStops:         filledStops,
		},
		FuelStops:     stops,
		StartEndMap:   buildMapLinks(start, finish),
		RoutePolyline: route.GeometryPolyline,
	}

	if len(missingMarkers) > 0 {
		plan.Warnings = &Warnings{
			MissingStationMarkersMiles: missingMarkers,
			Message:                    "Some stops were estimated because no geocoded station was found nearby.",
		}
	}

	p.logger.Debug().
		Float64("total_miles", plan.Summary.TotalDistanceMiles).
		Float64("total_cost_usd", plan.Summary.TotalFuelCostUSD).
		Int("fuel_stops", filledStops).
		Int("gap_markers", len(missingMarkers)).
		Msg("trip plan assembled")

	return plan, nil
}

// resolveEndpoint turns raw input into coordinates: coordinate text is
// parsed directly, anything else goes through the geocoder.
func (p *Planner) resolveEndpoint(ctx context.Context, raw string) (geo.Point, error) {
	if point, ok := parseCoordinates(raw); ok {
		return point, nil
	}

	point, err := p.geocoder.Resolve(ctx, raw)
	if err == nil {
		return point, nil
	}
	if errors.Is(err, geocode.ErrProviderUnavailable) {
		return geo.Point{}, newDependencyError("geocoding service failed, try again later", err)
	}
	return geo.Point{}, newClientError("invalid start or finish, use US address text or coordinates [lon, lat]")
}

func buildMapLinks(start, finish geo.Point) MapLinks {
	startPair := formatCoord(start.Lat) + "," + formatCoord(start.Lon)
	finishPair := formatCoord(finish.Lat) + "," + formatCoord(finish.Lon)
	return MapLinks{
		OpenStreetMapDirections: fmt.Sprintf(
			"https://www.openstreetmap.org/directions?engine=fossgis_osrm_car&route=%s%%2C%s%%3B%s%%2C%s",
			formatCoord(start.Lat), formatCoord(start.Lon),
			formatCoord(finish.Lat), formatCoord(finish.Lon),
		),
		GoogleMapsDirections: fmt.Sprintf(
			"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&travelmode=driving",
			url.QueryEscape(startPair), url.QueryEscape(finishPair),
		),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
