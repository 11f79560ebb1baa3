package routing

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
)

// StaticRouteProvider serves fixed routes keyed by origin and destination.
// Useful for tests and offline demos.
type StaticRouteProvider struct {
	routes map[string]*domain.Route
}

func NewStaticRouteProvider() *StaticRouteProvider {
	return &StaticRouteProvider{routes: make(map[string]*domain.Route)}
}

// Add registers a route built from the given leg distances in meters.
func (p *StaticRouteProvider) Add(origin, destination domain.Coordinates, distances ...float64) *StaticRouteProvider {
	route := &domain.Route{Legs: make([]domain.RouteLeg, 0, len(distances))}
	for _, d := range distances {
		route.Legs = append(route.Legs, domain.RouteLeg{DistanceMeters: d})
		route.TotalDistanceMeters += d
	}
	p.routes[RouteKey(origin, destination, "static")] = route
	return p
}

func (p *StaticRouteProvider) GetRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.Route, error) {
	r, ok := p.routes[RouteKey(origin, destination, "static")]
	if !ok {
		return nil, fmt.Errorf("no route from (%f, %f) to (%f, %f)", origin.Lon, origin.Lat, destination.Lon, destination.Lat)
	}
	return r, nil
}
