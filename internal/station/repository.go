package station

import "context"

// Repository defines the interface for station data persistence.
type Repository interface {
	// EligibleStations returns all stations with both coordinates present
	// and a positive retail price. Order is unspecified but stable within
	// one call.
	EligibleStations(ctx context.Context) ([]Station, error)

	// MissingCoordinates returns up to limit stations that have not been
	// geocoded yet, oldest first. limit <= 0 means no limit.
	MissingCoordinates(ctx context.Context, limit int) ([]Record, error)

	// UpdateCoordinates stores geocoded coordinates for a station.
	// Returns ErrStationNotFound if the station does not exist.
	UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error

	// Counts returns dataset statistics.
	Counts(ctx context.Context) (Counts, error)
}
