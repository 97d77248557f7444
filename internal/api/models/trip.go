package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fuelroute/fuelroute/internal/planner"
)

// LocationInput is a trip endpoint as supplied by the caller: either free
// address text or a [lon, lat] array. Array inputs are canonicalized to
// their text form so cache keys and planner input stay uniform.
type LocationInput string

// UnmarshalJSON accepts a JSON string or a [lon, lat] number array.
func (l *LocationInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = LocationInput(text)
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) < 2 {
			return errors.New("coordinate array needs at least [lon, lat]")
		}
		*l = LocationInput("[" +
			strconv.FormatFloat(pair[0], 'f', -1, 64) + ", " +
			strconv.FormatFloat(pair[1], 'f', -1, 64) + "]")
		return nil
	}

	return errors.New("location must be address text or a [lon, lat] array")
}

// String returns the canonical text form.
func (l LocationInput) String() string {
	return string(l)
}

// FlexBool is a boolean that also accepts the loose text encodings
// clients send ("1", "true", "yes").
type FlexBool bool

// UnmarshalJSON accepts JSON booleans, numbers, and common text forms.
// Unrecognized values fall back to false rather than erroring.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var native bool
	if err := json.Unmarshal(data, &native); err == nil {
		*b = FlexBool(native)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*b = FlexBool(ParseBoolText(text, false))
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*b = FlexBool(number != 0)
		return nil
	}

	*b = false
	return nil
}

// ParseBoolText interprets loose boolean text. Unrecognized input
// returns the fallback.
func ParseBoolText(text string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return fallback
	}
}

// TripPlanRequest is the POST /v1/trip/plan body. Older clients use the
// start_coords/end/end_coords aliases.
type TripPlanRequest struct {
	Start       *LocationInput `json:"start"`
	StartCoords *LocationInput `json:"start_coords"`
	Finish      *LocationInput `json:"finish"`
	End         *LocationInput `json:"end"`
	EndCoords   *LocationInput `json:"end_coords"`

	StartWithFullTank *FlexBool `json:"start_with_full_tank"`
}

// StartInput returns the start input, honoring aliases. Second return is
// false when no start was supplied.
func (r TripPlanRequest) StartInput() (string, bool) {
	for _, candidate := range []*LocationInput{r.Start, r.StartCoords} {
		if candidate != nil {
			return candidate.String(), true
		}
	}
	return "", false
}

// FinishInput returns the finish input, honoring aliases.
func (r TripPlanRequest) FinishInput() (string, bool) {
	for _, candidate := range []*LocationInput{r.Finish, r.End, r.EndCoords} {
		if candidate != nil {
			return candidate.String(), true
		}
	}
	return "", false
}

// TripEndpoint is a resolved trip endpoint in the response.
type TripEndpoint struct {
	Input       string          `json:"input"`
	Coordinates TripCoordinates `json:"coordinates"`
}

// TripCoordinates is a lon/lat pair in the response payload.
type TripCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// TripAssumptions echoes the planning constants used.
type TripAssumptions struct {
	VehicleRangeMiles   float64 `json:"vehicle_range_miles"`
	MPG                 float64 `json:"mpg"`
	StartWithFullTank   bool    `json:"start_with_full_tank"`
	CorridorRadiusMiles float64 `json:"corridor_radius_miles"`
}

// TripSummary aggregates plan figures.
type TripSummary struct {
	TotalDistanceMiles        float64 `json:"total_distance_miles"`
	TotalFuelConsumedGallons  float64 `json:"total_fuel_consumed_gallons"`
	TotalFuelPurchasedGallons float64 `json:"total_fuel_purchased_gallons"`
	TotalFuelCostUSD          float64 `json:"total_fuel_cost_usd"`
	NumberOfFuelStops         int     `json:"number_of_fuel_stops"`
}

// TripFuelStop is one planned stop. Station fields are present only for
// filled stops; gap stops carry Note instead.
type TripFuelStop struct {
	Order                int     `json:"order"`
	RouteMileMarker      float64 `json:"route_mile_marker"`
	SegmentDistanceMiles float64 `json:"segment_distance_miles"`

	Name                string  `json:"name,omitempty"`
	City                string  `json:"city,omitempty"`
	State               string  `json:"state,omitempty"`
	Latitude            float64 `json:"latitude,omitempty"`
	Longitude           float64 `json:"longitude,omitempty"`
	DistanceToRouteMiles float64 `json:"distance_to_route_miles,omitempty"`
	PricePerGallonUSD   float64 `json:"price_per_gallon_usd,omitempty"`
	GallonsPurchased    float64 `json:"gallons_purchased,omitempty"`
	SegmentCostUSD      float64 `json:"segment_cost_usd,omitempty"`

	Note string `json:"note,omitempty"`
}

// TripWarnings flags degraded results.
type TripWarnings struct {
	MissingStationMarkersMiles []float64 `json:"missing_station_markers_miles"`
	Message                    string    `json:"message"`
}

// TripMapLinks holds external map URLs for the start-finish pair.
type TripMapLinks struct {
	OpenStreetMapDirections string `json:"openstreetmap_directions"`
	GoogleMapsDirections    string `json:"google_maps_directions"`
}

// TripPlanResponse is the public trip plan payload. The encoded route
// geometry is deliberately absent: it is internal plan state.
type TripPlanResponse struct {
	Start       TripEndpoint  `json:"start"`
	Finish      TripEndpoint  `json:"finish"`
	Assumptions TripAssumptions `json:"assumptions"`
	Summary     TripSummary   `json:"summary"`
	FuelStops   []TripFuelStop `json:"fuel_stops"`
	Warnings    *TripWarnings `json:"warnings,omitempty"`
	StartEndMap TripMapLinks  `json:"start_end_map"`
}

// NewTripPlanResponse converts a plan to its public payload.
func NewTripPlanResponse(plan *planner.TripPlan) TripPlanResponse {
	resp := TripPlanResponse{
		Start:  newTripEndpoint(plan.Start),
		Finish: newTripEndpoint(plan.Finish),
		Assumptions: TripAssumptions{
			VehicleRangeMiles:   plan.Assumptions.VehicleRangeMiles,
			MPG:                 plan.Assumptions.MPG,
			StartWithFullTank:   plan.Assumptions.StartWithFullTank,
			CorridorRadiusMiles: plan.Assumptions.CorridorRadiusMiles,
		},
		Summary: TripSummary{
			TotalDistanceMiles:        plan.Summary.TotalDistanceMiles,
			TotalFuelConsumedGallons:  plan.Summary.TotalFuelConsumedGallons,
			TotalFuelPurchasedGallons: plan.Summary.TotalFuelPurchasedGallons,
			TotalFuelCostUSD:          plan.Summary.TotalFuelCostUSD,
			NumberOfFuelStops:         plan.Summary.NumberOfFuelStops,
		},
		FuelStops: make([]TripFuelStop, 0, len(plan.FuelStops)),
		StartEndMap: TripMapLinks{
			OpenStreetMapDirections: plan.StartEndMap.OpenStreetMapDirections,
			GoogleMapsDirections:    plan.StartEndMap.GoogleMapsDirections,
		},
	}

	for _, stop := range plan.FuelStops {
		out := TripFuelStop{
			Order:                stop.Order,
			RouteMileMarker:      stop.RouteMileMarker,
			SegmentDistanceMiles: stop.SegmentMiles,
		}
		if stop.IsGap() {
			out.Note = stop.Note
		} else {
			out.Name = stop.Station.Name
			out.City = stop.Station.City
			out.State = stop.Station.State
			out.Latitude = stop.Station.Lat
			out.Longitude = stop.Station.Lon
			out.DistanceToRouteMiles = stop.Station.DetourMiles
			out.PricePerGallonUSD = stop.Station.PricePerGallon
			out.GallonsPurchased = stop.Gallons
			out.SegmentCostUSD = stop.SegmentCost
		}
		resp.FuelStops = append(resp.FuelStops, out)
	}

	if plan.Warnings != nil {
		resp.Warnings = &TripWarnings{
			MissingStationMarkersMiles: plan.Warnings.MissingStationMarkersMiles,
			Message:                    plan.Warnings.Message,
		}
	}

	return resp
}

func newTripEndpoint(endpoint planner.Endpoint) TripEndpoint {
	return TripEndpoint{
		Input: endpoint.Input,
		Coordinates: TripCoordinates{
			Lon: endpoint.Coordinates.Lon,
			Lat: endpoint.Coordinates.Lat,
		},
	}
}
