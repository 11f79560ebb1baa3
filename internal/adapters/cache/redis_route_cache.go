package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores routing provider responses in Redis with a TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

type cachedLeg struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Instruction string  `json:"instruction,omitempty"`
}

type cachedRoute struct {
	Legs          []cachedLeg     `json:"legs"`
	TotalDistance float64         `json:"total_distance"`
	TotalDuration float64         `json:"total_duration"`
	Geometry      json.RawMessage `json:"geometry,omitempty"`
}

// Get returns the cached route for key, or nil on a miss.
func (r *RedisRouteCache) Get(ctx context.Context, key string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if r.Client == nil {
		return nil, errors.New("route cache: client is nil")
	}

	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var cr cachedRoute
	if err := json.Unmarshal(b, &cr); err != nil {
		return nil, fmt.Errorf("get route cache key=%q: decode: %w", key, err)
	}

	route := &domain.Route{
		Legs:                 make([]domain.RouteLeg, 0, len(cr.Legs)),
		TotalDistanceMeters:  cr.TotalDistance,
		TotalDurationSeconds: cr.TotalDuration,
		Geometry:             cr.Geometry,
	}
	for _, l := range cr.Legs {
		route.Legs = append(route.Legs, domain.RouteLeg{
			DistanceMeters:  l.Distance,
			DurationSeconds: l.Duration,
			Instruction:     l.Instruction,
		})
	}

	return route, nil
}

// Put stores route under key, replacing any previous value.
func (r *RedisRouteCache) Put(ctx context.Context, key string, route *domain.Route) error {
	if r.Client == nil {
		return errors.New("route cache: client is nil")
	}
	if route == nil {
		return errors.New("route cache: route is nil")
	}

	cr := cachedRoute{
		Legs:          make([]cachedLeg, 0, len(route.Legs)),
		TotalDistance: route.TotalDistanceMeters,
		TotalDuration: route.TotalDurationSeconds,
		Geometry:      route.Geometry,
	}
	for _, l := range route.Legs {
		cr.Legs = append(cr.Legs, cachedLeg{
			Distance:    l.DistanceMeters,
			Duration:    l.DurationSeconds,
			Instruction: l.Instruction,
		})
	}

	b, err := json.Marshal(cr)
	if err != nil {
		return fmt.Errorf("put route cache key=%q: encode: %w", key, err)
	}

	if err := r.Client.Set(ctx, key, b, r.TTL).Err(); err != nil {
		return fmt.Errorf("put route cache key=%q: %w", key, err)
	}

	return nil
}
