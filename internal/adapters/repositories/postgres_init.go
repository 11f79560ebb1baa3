package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Requires the PostGIS extension to be installable.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		`
		CREATE TABLE IF NOT EXISTS fuel_stops (
			opis_id BIGINT PRIMARY KEY,
			truckstop_name VARCHAR(255) NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(30) NOT NULL DEFAULT '',
			state VARCHAR(10) NOT NULL DEFAULT '',
			rack_id BIGINT NOT NULL DEFAULT 0,
			retail_price NUMERIC(10, 3) NOT NULL,
			point GEOGRAPHY(POINT, 4326) NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_fuel_stops_point
		ON fuel_stops USING GIST (point);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			cache_key TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL
		);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
