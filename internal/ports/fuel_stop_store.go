package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: radius-bounded cheapest fuel stop lookup.
type FuelStopFinder interface {
	// Return the cheapest stop within radiusMeters of position, or nil when none.
	// Ties on price resolve by distance from position, then by stop ID.
	FindCheapest(ctx context.Context, position domain.Coordinates, radiusMeters float64) (*domain.FuelStop, error)
}

// Port: catalog maintenance used by the CSV importer.
type FuelStopRepository interface {
	// Return which of the given IDs are already stored.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	// Insert stops in a single transaction.
	InsertMany(ctx context.Context, stops []domain.FuelStop) error
	Count(ctx context.Context) (int, error)
}
