package routing

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"log"
)

// RouteKey builds a cache key for a route. Coordinates are rounded to
// five decimal places (about one meter).
func RouteKey(origin, destination domain.Coordinates, profile string) string {
	return fmt.Sprintf("route:%s:%.5f,%.5f:%.5f,%.5f",
		profile, origin.Lon, origin.Lat, destination.Lon, destination.Lat)
}

// CachedRouteProvider consults a RouteCache before delegating to the wrapped provider.
// Cache failures are logged and never fail the request.
type CachedRouteProvider struct {
	Provider ports.RouteProvider
	Cache    ports.RouteCache
	Profile  string
}

func NewCachedRouteProvider(provider ports.RouteProvider, cache ports.RouteCache, profile string) *CachedRouteProvider {
	return &CachedRouteProvider{Provider: provider, Cache: cache, Profile: profile}
}

func (c *CachedRouteProvider) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (*domain.Route, error) {
	key := RouteKey(origin, destination, c.Profile)

	if c.Cache != nil {
		cached, err := c.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("route cache read failed: key=%s err=%v", key, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	route, err := c.Provider.GetRoute(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, key, route); err != nil {
			log.Printf("route cache write failed: key=%s err=%v", key, err)
		}
	}

	return route, nil
}
