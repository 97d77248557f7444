// Package geocode resolves free-text US addresses into coordinates.
package geocode

import (
	"context"
	"errors"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Geocoding errors. Every transport-level failure mode collapses into one of
// these two signals at the client boundary; transport error types never reach
// the planner.
var (
	// ErrNoResult indicates the address could not be resolved.
	ErrNoResult = errors.New("no geocoding result for address")
	// ErrProviderUnavailable indicates the geocoding provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Resolver defines the interface for geocoding providers.
type Resolver interface {
	// Resolve returns the coordinate for an address, or ErrNoResult.
	Resolve(ctx context.Context, address string) (geo.Point, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}
