// Package routing provides driving route computation between two points.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoute retrieves a driving route between two points.
	GetRoute(ctx context.Context, req RouteRequest) (*RouteResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RouteRequest is the request for computing a driving route.
type RouteRequest struct {
	Origin      geo.Point
	Destination geo.Point
}

// RouteResponse is the computed route.
type RouteResponse struct {
	// DistanceMeters is the routed driving distance.
	DistanceMeters float64

	// GeometryPolyline is the encoded route geometry (precision 5).
	GeometryPolyline string

	// Points is the decoded route geometry ordered start to finish. May be
	// empty when the provider returned only a distance estimate.
	Points []geo.Point

	Provider  string
	FetchedAt time.Time
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
