package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newRedisCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRouteCache(client, time.Hour), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t)
	ctx := context.Background()

	route := &domain.Route{
		Legs: []domain.RouteLeg{
			{DistanceMeters: 1000.5, DurationSeconds: 60, Instruction: "Head north"},
			{DistanceMeters: 250, DurationSeconds: 20},
		},
		TotalDistanceMeters:  1250.5,
		TotalDurationSeconds: 80,
		Geometry:             json.RawMessage(`{"type":"LineString","coordinates":[[-97.7,30.2],[-97.6,30.3]]}`),
	}

	require.NoError(t, cache.Put(ctx, "route:a", route))

	got, err := cache.Get(ctx, "route:a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, route.Legs, got.Legs)
	assert.Equal(t, route.TotalDistanceMeters, got.TotalDistanceMeters)
	assert.JSONEq(t, string(route.Geometry), string(got.Geometry))
}

func TestRedisRouteCacheMiss(t *testing.T) {
	cache, _ := newRedisCache(t)

	got, err := cache.Get(context.Background(), "route:missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRouteCacheExpires(t *testing.T) {
	cache, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "route:a", &domain.Route{}))
	mr.FastForward(2 * time.Hour)

	got, err := cache.Get(ctx, "route:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRouteCacheServerDown(t *testing.T) {
	cache, mr := newRedisCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "route:a")
	assert.Error(t, err)
}

func newSqliteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repositories.InitSchema(db))
	return db
}

func TestSqliteGeocodeCache(t *testing.T) {
	cache := NewSqliteGeocodeCache(newSqliteDB(t))
	ctx := context.Background()

	require.NoError(t, cache.PutMany(ctx, map[string]domain.Coordinates{
		"1001": {Lon: -74.0060, Lat: 40.7128},
		"1002": {Lon: -118.0775, Lat: 34.0522},
	}))

	got, err := cache.GetMany(ctx, []string{" 1001 ", "1001", "1003", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"1001": {Lon: -74.0060, Lat: 40.7128}}, got)

	// Later writes replace earlier ones.
	require.NoError(t, cache.PutMany(ctx, map[string]domain.Coordinates{"1001": {Lon: 1, Lat: 2}}))
	got, err = cache.GetMany(ctx, []string{"1001"})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 1, Lat: 2}, got["1001"])

	assert.Error(t, cache.PutMany(ctx, map[string]domain.Coordinates{" ": {}}))
}

func TestSqliteGeocodeCacheEmptyInput(t *testing.T) {
	cache := NewSqliteGeocodeCache(newSqliteDB(t))

	got, err := cache.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, cache.PutMany(context.Background(), nil))
}
