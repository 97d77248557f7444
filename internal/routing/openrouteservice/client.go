// Package openrouteservice provides a client for the OpenRouteService
// driving directions API.
package openrouteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/twpayne/go-polyline"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultTimeout is the default request timeout. Long cross-country
	// routes take ORS a while to compute.
	DefaultTimeout = 20 * time.Second

	// drivingProfile is the only profile this system routes with.
	drivingProfile = "driving-car"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to ORS API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 20s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OpenRouteService client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoute retrieves a driving route between two points.
func (c *Client) GetRoute(ctx context.Context, req routing.RouteRequest) (*routing.RouteResponse, error) {
	if c.apiKey == "" {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_API_KEY",
			Message:  "routing provider is not configured",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	// ORS uses [lon, lat] order (GeoJSON)
	orsReq := orsRequest{
		Coordinates: [][]float64{
			{req.Origin.Lon, req.Origin.Lat},
			{req.Destination.Lon, req.Destination.Lat},
		},
		Instructions: false,
		Geometry:     true,
		Units:        "m",
	}

	body, err := json.Marshal(orsReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, drivingProfile)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json, application/geo+json")

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting driving route from ORS")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var orsResp orsResponse
	if err := json.Unmarshal(respBody, &orsResp); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_PAYLOAD",
			Message:  "routing provider returned a malformed response",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	if len(orsResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := c.toRouteResponse(&orsResp.Routes[0])

	c.logger.Debug().
		Float64("distance_m", result.DistanceMeters).
		Int("points", len(result.Points)).
		Msg("received route from ORS")

	return result, nil
}

// handleErrorResponse maps ORS error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var orsErr orsErrorResponse
	if err := json.Unmarshal(body, &orsErr); err != nil {
		// Fall back to generic error if we can't parse
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case http.StatusForbidden:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case http.StatusNotFound:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case http.StatusBadRequest:
		// Check for specific ORS error codes
		if orsErr.Error.Code == orsErrorCodeNotFound {
			return &routing.Error{
				Provider: ProviderName,
				Code:     "NO_ROUTE",
				Message:  orsErr.Error.Message,
				Err:      routing.ErrNoRouteFound,
			}
		}
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  orsErr.Error.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		if statusCode >= 500 {
			return &routing.Error{
				Provider: ProviderName,
				Code:     fmt.Sprintf("SERVER_%d", statusCode),
				Message:  "routing provider is temporarily unavailable",
				Err:      routing.ErrProviderUnavailable,
			}
		}
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  orsErr.Error.Message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toRouteResponse converts an ORS route to the domain model. A geometry that
// fails to decode degrades to an empty point list rather than an error; the
// planner falls back to a straight start-finish segment in that case.
func (c *Client) toRouteResponse(route *orsRoute) *routing.RouteResponse {
	result := &routing.RouteResponse{
		DistanceMeters:   route.Summary.Distance,
		GeometryPolyline: route.Geometry,
		Provider:         ProviderName,
		FetchedAt:        time.Now(),
	}

	if route.Geometry != "" {
		coords, _, err := polyline.DecodeCoords([]byte(route.Geometry))
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to decode route polyline")
		} else {
			points := make([]geo.Point, 0, len(coords))
			for _, coord := range coords {
				if len(coord) < 2 {
					continue
				}
				points = append(points, geo.Point{Lat: coord[0], Lon: coord[1]})
			}
			result.Points = points
		}
	}

	return result
}
