// Package tripcache caches assembled trip plans keyed by the raw trip
// inputs. Plans are expensive (geocoding plus a routing call), so repeat
// requests for the same trip are served from here.
package tripcache

import (
	"context"
	"time"

	"github.com/fuelroute/fuelroute/internal/planner"
)

// DefaultTTL is how long a cached plan stays valid. Fuel prices in the
// dataset change far less often than this.
const DefaultTTL = 15 * time.Minute

// Cache stores trip plans. Implementations must treat a miss as
// (nil, false, nil), not an error.
type Cache interface {
	// Get returns the cached plan for key, if present and unexpired.
	Get(ctx context.Context, key string) (*planner.TripPlan, bool, error)

	// Set stores a plan under key for ttl.
	Set(ctx context.Context, key string, plan *planner.TripPlan, ttl time.Duration) error

	// Invalidate removes every cached trip plan.
	Invalidate(ctx context.Context) error
}
