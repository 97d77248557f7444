// Package station provides the fuel station dataset: the persistent
// repository and a snapshot service that exposes a read-only view of the
// eligible stations to the trip planner.
package station

import (
	"errors"
	"time"
)

// Station errors.
var (
	// ErrSnapshotUnavailable indicates no station snapshot could be loaded.
	ErrSnapshotUnavailable = errors.New("station snapshot unavailable")
	// ErrStationNotFound indicates the requested station does not exist.
	ErrStationNotFound = errors.New("station not found")
)

// Station is an eligible fuel station: both coordinates present and a
// positive retail price. Records failing either condition never leave the
// repository.
type Station struct {
	Name           string
	City           string
	State          string
	PricePerGallon float64
	Lat            float64
	Lon            float64
}

// Record is a raw station row, including stations that have not been
// geocoded yet. Used by the worker's coordinate backfill.
type Record struct {
	ID      int64
	Name    string
	Address string
	City    string
	State   string
}

// Counts summarizes the dataset for ops visibility.
type Counts struct {
	Total       int
	WithCoords  int
	MissingBoth int
}

// Snapshot is an immutable view of the eligible station set. The slice is
// never mutated after publication; callers may iterate it without locking.
type Snapshot struct {
	Stations []Station
	LoadedAt time.Time
}
