package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/ports"
)

// FuelStopStore is implemented by every catalog backend.
type FuelStopStore interface {
	ports.FuelStopFinder
	ports.FuelStopRepository
}

// OpenStore connects to the backend named by driver ("sqlite" or "postgres")
// and creates its schema when missing. The caller owns the returned *sql.DB.
func OpenStore(ctx context.Context, driver, sqlitePath, databaseURL string) (FuelStopStore, *sql.DB, error) {
	switch driver {
	case "sqlite":
		conn, err := db.OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return NewSqliteFuelStopStore(conn), conn, nil

	case "postgres":
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return NewPostgresFuelStopStore(conn), conn, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown driver %q", driver)
	}
}
