package tripcache

import (
	"context"
	"sync"
	"time"

	"github.com/fuelroute/fuelroute/internal/planner"
)

// MemoryCache is an in-process trip cache for local development and
// deployments without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	plan      planner.TripPlan
	expiresAt time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an in-memory trip cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached plan for key, if present and unexpired.
func (c *MemoryCache) Get(_ context.Context, key string) (*planner.TripPlan, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	plan := entry.plan
	return &plan, true, nil
}

// Set stores a plan under key for ttl.
func (c *MemoryCache) Set(_ context.Context, key string, plan *planner.TripPlan, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Piggyback expired-entry cleanup on writes.
	now := time.Now()
	for k, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = memoryEntry{plan: *plan, expiresAt: now.Add(ttl)}
	return nil
}

// Invalidate removes every cached trip plan.
func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}
