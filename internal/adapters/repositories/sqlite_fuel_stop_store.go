package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/geo"
	"fuel-route-service/internal/platform/obs"
	"strings"
)

// SQLite-backed fuel stop catalog.
// Radius queries prefilter with a lat/lon bounding box on the index and
// apply the exact great-circle test in Go.
type SqliteFuelStopStore struct{ DB *sql.DB }

func NewSqliteFuelStopStore(db *sql.DB) *SqliteFuelStopStore {
	return &SqliteFuelStopStore{DB: db}
}

func (s *SqliteFuelStopStore) FindCheapest(
	ctx context.Context,
	position domain.Coordinates,
	radiusMeters float64,
) (_ *domain.FuelStop, err error) {
	defer obs.Time(ctx, "fuelstops.sqlite.FindCheapest")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite fuel stop store: DB is nil")
	}
	if radiusMeters <= 0 {
		return nil, errors.New("find cheapest: radius must be > 0")
	}

	box := geo.BoundingBox(position, radiusMeters)

	query := `
	SELECT
		opis_id,
		truckstop_name,
		address,
		city,
		state,
		rack_id,
		retail_price,
		lon,
		lat
	FROM fuel_stops
	WHERE lat BETWEEN ? AND ?
		AND lon BETWEEN ? AND ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("find cheapest: query fuel_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.FuelStop, 0, 64)
	for rows.Next() {
		var fs domain.FuelStop
		if err := rows.Scan(
			&fs.ID,
			&fs.Name,
			&fs.Address,
			&fs.City,
			&fs.State,
			&fs.RackID,
			&fs.Price,
			&fs.Location.Lon,
			&fs.Location.Lat,
		); err != nil {
			return nil, fmt.Errorf("find cheapest: scan row: %w", err)
		}
		stops = append(stops, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find cheapest: row iteration: %w", err)
	}

	return pickCheapest(stops, position, radiusMeters), nil
}

// Return which of the given IDs already exist.
func (s *SqliteFuelStopStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite fuel stop store: DB is nil")
	}

	out := make(map[int64]struct{})
	if len(ids) == 0 {
		return out, nil
	}

	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT opis_id
	FROM fuel_stops
	WHERE opis_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("existing fuel stop ids: query fuel_stops table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("existing fuel stop ids: scan row: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("existing fuel stop ids: row iteration: %w", err)
	}

	return out, nil
}

// Insert fuel stops in one transaction.
func (s *SqliteFuelStopStore) InsertMany(ctx context.Context, stops []domain.FuelStop) error {
	if s.DB == nil {
		return errors.New("sqlite fuel stop store: DB is nil")
	}

	if len(stops) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert fuel stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO fuel_stops (
		opis_id,
		truckstop_name,
		address,
		city,
		state,
		rack_id,
		retail_price,
		lon,
		lat
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert fuel stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, fs := range stops {
		if _, err := stmt.ExecContext(
			ctx,
			fs.ID,
			fs.Name,
			fs.Address,
			fs.City,
			fs.State,
			fs.RackID,
			fs.Price.StringFixed(3),
			fs.Location.Lon,
			fs.Location.Lat,
		); err != nil {
			return fmt.Errorf("insert fuel stops: opis_id=%d: %w", fs.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert fuel stops: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteFuelStopStore) Count(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite fuel stop store: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_stops;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fuel stops: %w", err)
	}
	return n, nil
}
