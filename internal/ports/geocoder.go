package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for resolving a free-text place name to coordinates.
type Geocoder interface {
	// Return coordinates for the query, or ok=false when nothing matched.
	Geocode(ctx context.Context, query string) (coords domain.Coordinates, ok bool, err error)
}

// Persistent key -> coordinates cache for geocoding results.
type GeocodeCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
