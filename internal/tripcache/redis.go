package tripcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/planner"
)

// keyPattern matches every trip plan key this cache writes. Used by
// Invalidate so unrelated keys in a shared Redis stay untouched.
const keyPattern = "trip:v2:*"

// defaultOpTimeout bounds individual Redis operations so a slow cache
// never stalls a plan request.
const defaultOpTimeout = 2 * time.Second

// RedisCacheConfig holds configuration for the Redis-backed cache.
type RedisCacheConfig struct {
	// Client is the Redis client (required).
	Client *redis.Client

	// OpTimeout bounds each Redis call (optional, defaults to 2s).
	OpTimeout time.Duration

	// Logger for cache operations.
	Logger zerolog.Logger
}

// RedisCache stores trip plans in Redis as JSON.
type RedisCache struct {
	client    *redis.Client
	opTimeout time.Duration
	logger    zerolog.Logger
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a Redis-backed trip cache.
func NewRedisCache(cfg RedisCacheConfig) *RedisCache {
	opTimeout := cfg.OpTimeout
	if opTimeout == 0 {
		opTimeout = defaultOpTimeout
	}
	return &RedisCache{
		client:    cfg.Client,
		opTimeout: opTimeout,
		logger:    cfg.Logger.With().Str("component", "tripcache").Logger(),
	}
}

// Get returns the cached plan for key, if present.
func (c *RedisCache) Get(ctx context.Context, key string) (*planner.TripPlan, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached plan: %w", err)
	}

	var plan planner.TripPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten.
		c.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cached plan")
		return nil, false, nil
	}
	return &plan, true, nil
}

// Set stores a plan under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, plan *planner.TripPlan, ttl time.Duration) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("writing cached plan: %w", err)
	}
	return nil
}

// Invalidate removes every cached trip plan.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		scanCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		keys, next, err := c.client.Scan(scanCtx, cursor, keyPattern, 100).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("scanning trip keys: %w", err)
		}

		if len(keys) > 0 {
			delCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
			err = c.client.Del(delCtx, keys...).Err()
			cancel()
			if err != nil {
				return fmt.Errorf("deleting trip keys: %w", err)
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info().Int("removed", removed).Msg("trip cache invalidated")
	return nil
}
