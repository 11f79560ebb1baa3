package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for retrieving a driving route between two coordinates.
type RouteProvider interface {
	// Return the ordered legs and geometry from origin to destination.
	// Implementations fail explicitly when no route can be produced.
	GetRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.Route, error)
}

// Optional cache for routing provider responses.
type RouteCache interface {
	// Return the cached route, or nil when there is no entry.
	Get(ctx context.Context, key string) (*domain.Route, error)
	Put(ctx context.Context, key string, route *domain.Route) error
}
