package models

// PlanningAssumptions describes the fixed planning constants the service
// applies to every trip.
type PlanningAssumptions struct {
	VehicleRangeMiles   float64 `json:"vehicle_range_miles"`
	MPG                 float64 `json:"mpg"`
	CorridorRadiusMiles float64 `json:"corridor_radius_miles"`
	TripCacheTTLSeconds int     `json:"trip_cache_ttl_seconds"`
}

// StationStats summarizes the fuel station dataset.
type StationStats struct {
	TotalStations      int        `json:"total_stations"`
	WithCoordinates    int        `json:"with_coordinates"`
	MissingCoordinates int        `json:"missing_coordinates"`
	SnapshotLoadedAt   *Timestamp `json:"snapshot_loaded_at,omitempty"`
}
