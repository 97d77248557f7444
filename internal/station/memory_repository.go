package station

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	stations []Station
	pending  map[int64]Record
}

// NewInMemoryRepository creates a new in-memory station repository seeded
// with the given eligible stations.
func NewInMemoryRepository(stations ...Station) *InMemoryRepository {
	return &InMemoryRepository{
		stations: append([]Station(nil), stations...),
		pending:  make(map[int64]Record),
	}
}

// SetStations replaces the eligible station set.
func (r *InMemoryRepository) SetStations(stations []Station) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations = append([]Station(nil), stations...)
}

// AddPending registers a station without coordinates for backfill tests.
func (r *InMemoryRepository) AddPending(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[rec.ID] = rec
}

// EligibleStations returns a copy of the seeded station set.
func (r *InMemoryRepository) EligibleStations(_ context.Context) ([]Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Station(nil), r.stations...), nil
}

// MissingCoordinates returns pending stations, up to limit.
func (r *InMemoryRepository) MissingCoordinates(_ context.Context, limit int) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []Record
	for _, rec := range r.pending {
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// UpdateCoordinates promotes a pending station to the eligible set.
func (r *InMemoryRepository) UpdateCoordinates(_ context.Context, id int64, lat, lon float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.pending[id]
	if !ok {
		return ErrStationNotFound
	}
	delete(r.pending, id)
	r.stations = append(r.stations, Station{
		Name:  rec.Name,
		City:  rec.City,
		State: rec.State,
		Lat:   lat,
		Lon:   lon,
	})
	return nil
}

// Counts returns dataset statistics.
func (r *InMemoryRepository) Counts(_ context.Context) (Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Counts{
		Total:       len(r.stations) + len(r.pending),
		WithCoords:  len(r.stations),
		MissingBoth: len(r.pending),
	}, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
