package station

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL station repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EligibleStations returns all stations with coordinates and a positive price.
func (r *PostgresRepository) EligibleStations(ctx context.Context) ([]Station, error) {
	query := `
		SELECT name, city, state, retail_price, latitude, longitude
		FROM fuel_stations
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.Name, &s.City, &s.State, &s.PricePerGallon, &s.Lat, &s.Lon); err != nil {
			// Malformed rows are skipped, not surfaced as request errors.
			continue
		}
		if s.PricePerGallon <= 0 {
			continue
		}
		stations = append(stations, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

// MissingCoordinates returns stations that still need geocoding.
func (r *PostgresRepository) MissingCoordinates(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, name, address, city, state
		FROM fuel_stations
		WHERE latitude IS NULL AND longitude IS NULL AND address <> ''
		ORDER BY id
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Address, &rec.City, &rec.State); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateCoordinates stores geocoded coordinates for a station.
func (r *PostgresRepository) UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	query := `UPDATE fuel_stations SET latitude = $2, longitude = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, lat, lon)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStationNotFound
	}
	return nil
}

// Counts returns dataset statistics.
func (r *PostgresRepository) Counts(ctx context.Context) (Counts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL),
			COUNT(*) FILTER (WHERE latitude IS NULL AND longitude IS NULL)
		FROM fuel_stations
	`

	var c Counts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.Total, &c.WithCoords, &c.MissingBoth); err != nil {
		return Counts{}, err
	}
	return c, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
