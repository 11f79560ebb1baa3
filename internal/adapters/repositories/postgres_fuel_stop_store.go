package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
)

// PostgresFuelStopStore answers radius queries with PostGIS on a geography
// column, so distances are measured on the WGS84 spheroid.
type PostgresFuelStopStore struct {
	DB *sql.DB
}

func NewPostgresFuelStopStore(db *sql.DB) *PostgresFuelStopStore {
	return &PostgresFuelStopStore{DB: db}
}

func (s *PostgresFuelStopStore) FindCheapest(
	ctx context.Context,
	position domain.Coordinates,
	radiusMeters float64,
) (_ *domain.FuelStop, err error) {
	defer obs.Time(ctx, "fuelstops.postgres.FindCheapest")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres fuel stop store: db is nil")
	}
	if radiusMeters <= 0 {
		return nil, errors.New("find cheapest: radius must be > 0")
	}

	q := `
	WITH origin AS (
		SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS g
	)
	SELECT
		f.opis_id,
		f.truckstop_name,
		f.address,
		f.city,
		f.state,
		f.rack_id,
		f.retail_price::text,
		ST_X(f.point::geometry),
		ST_Y(f.point::geometry)
	FROM fuel_stops f, origin o
	WHERE ST_DWithin(f.point, o.g, $3)
	ORDER BY f.retail_price, ST_Distance(f.point, o.g), f.opis_id
	LIMIT 1;
	`

	var fs domain.FuelStop
	err = s.DB.QueryRowContext(ctx, q, position.Lon, position.Lat, radiusMeters).Scan(
		&fs.ID,
		&fs.Name,
		&fs.Address,
		&fs.City,
		&fs.State,
		&fs.RackID,
		&fs.Price,
		&fs.Location.Lon,
		&fs.Location.Lat,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cheapest: query fuel_stops table: %w", err)
	}

	return &fs, nil
}

// Return which of the given IDs already exist.
func (s *PostgresFuelStopStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if s.DB == nil {
		return nil, errors.New("postgres fuel stop store: db is nil")
	}

	out := make(map[int64]struct{})
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT opis_id
	FROM fuel_stops
	WHERE opis_id = ANY($1::bigint[]);
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("existing fuel stop ids: query fuel_stops table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("existing fuel stop ids: scan rows: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("existing fuel stop ids: row iteration: %w", err)
	}

	return out, nil
}

// Insert fuel stops in one transaction.
func (s *PostgresFuelStopStore) InsertMany(ctx context.Context, stops []domain.FuelStop) error {
	if s.DB == nil {
		return errors.New("postgres fuel stop store: db is nil")
	}

	if len(stops) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert fuel stops: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO fuel_stops (
		opis_id, truckstop_name, address, city, state, rack_id, retail_price, point
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography);
	`)
	if err != nil {
		return fmt.Errorf("insert fuel stops: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, fs := range stops {
		if _, err := stmt.ExecContext(
			ctx,
			fs.ID, fs.Name, fs.Address, fs.City, fs.State, fs.RackID,
			fs.Price.StringFixed(3),
			fs.Location.Lon, fs.Location.Lat,
		); err != nil {
			return fmt.Errorf("insert fuel stops opis_id=%d: %w", fs.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert fuel stops commit: %w", err)
	}

	return nil
}

func (s *PostgresFuelStopStore) Count(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("postgres fuel stop store: db is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_stops;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fuel stops: %w", err)
	}
	return n, nil
}
