package tripcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/planner"
)

func samplePlan() *planner.TripPlan {
	return &planner.TripPlan{
		Start:  planner.Endpoint{Input: "[-120, 35]", Coordinates: geo.Point{Lat: 35, Lon: -120}},
		Finish: planner.Endpoint{Input: "[-90, 35]", Coordinates: geo.Point{Lat: 35, Lon: -90}},
		Summary: planner.Summary{
			TotalDistanceMiles: 1697.75,
			TotalFuelCostUSD:   551.23,
			NumberOfFuelStops:  4,
		},
		FuelStops: []planner.FuelStop{
			{
				Order:           1,
				RouteMileMarker: 0,
				SegmentMiles:    500,
				Station: &planner.SelectedStation{
					Name:           "Bakersfield Fuel",
					City:           "Bakersfield",
					State:          "CA",
					PricePerGallon: 3.90,
				},
				Gallons:     50,
				SegmentCost: 195,
			},
		},
		RoutePolyline: "encoded",
	}
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(RedisCacheConfig{Client: client, Logger: zerolog.Nop()}), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t)
	ctx := context.Background()
	key := planner.CacheKey("[-120, 35]", "[-90, 35]", false)

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	plan := samplePlan()
	require.NoError(t, cache.Set(ctx, key, plan, DefaultTTL))

	got, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, plan.Summary, got.Summary)
	assert.Equal(t, plan.RoutePolyline, got.RoutePolyline)
	require.Len(t, got.FuelStops, 1)
	assert.Equal(t, "Bakersfield Fuel", got.FuelStops[0].Station.Name)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, mr := newRedisCache(t)
	ctx := context.Background()
	key := planner.CacheKey("a", "b", false)

	require.NoError(t, cache.Set(ctx, key, samplePlan(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newRedisCache(t)
	key := planner.CacheKey("a", "b", true)
	require.NoError(t, mr.Set(key, "{not json"))

	_, found, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_InvalidateOnlyTouchesTripKeys(t *testing.T) {
	cache, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, planner.CacheKey("a", "b", false), samplePlan(), DefaultTTL))
	require.NoError(t, cache.Set(ctx, planner.CacheKey("c", "d", true), samplePlan(), DefaultTTL))
	require.NoError(t, mr.Set("unrelated:key", "keep me"))

	require.NoError(t, cache.Invalidate(ctx))

	_, found, err := cache.Get(ctx, planner.CacheKey("a", "b", false))
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, mr.Exists("unrelated:key"))
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	key := planner.CacheKey("a", "b", false)

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	plan := samplePlan()
	require.NoError(t, cache.Set(ctx, key, plan, time.Minute))

	got, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, plan.Summary, got.Summary)
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	key := planner.CacheKey("a", "b", false)

	require.NoError(t, cache.Set(ctx, key, samplePlan(), time.Minute))

	first, _, err := cache.Get(ctx, key)
	require.NoError(t, err)
	first.Summary.TotalFuelCostUSD = -1

	second, _, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 551.23, second.Summary.TotalFuelCostUSD)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	key := planner.CacheKey("a", "b", false)

	require.NoError(t, cache.Set(ctx, key, samplePlan(), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Invalidate(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "trip:v2:a:b:0", samplePlan(), time.Minute))
	require.NoError(t, cache.Invalidate(ctx))

	_, found, err := cache.Get(ctx, "trip:v2:a:b:0")
	require.NoError(t, err)
	assert.False(t, found)
}
