// Package opencage provides a geocoding client for the OpenCage forward
// geocoding API, restricted to US results.
package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/geocode"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "opencage"

	// DefaultBaseURL is the OpenCage API base URL.
	DefaultBaseURL = "https://api.opencagedata.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 8 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenCage client.
type ClientConfig struct {
	// APIKey is the OpenCage API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the OpenCage API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 8s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenCage geocoding client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OpenCage client.
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

// Resolve returns the coordinate for a US address.
// All transport failures are collapsed to ErrProviderUnavailable and empty
// or malformed result sets to ErrNoResult.
func (c *Client) Resolve(ctx context.Context, address string) (geo.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" || c.apiKey == "" {
		return geo.Point{}, geocode.ErrNoResult
	}

	query := url.Values{}
	query.Set("q", address)
	query.Set("key", c.apiKey)
	query.Set("limit", "1")
	query.Set("countrycode", "us")

	reqURL := fmt.Sprintf("%s/geocode/v1/json?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("address", address).
		Msg("geocoding address via OpenCage")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, geocode.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return geo.Point{}, geocode.ErrProviderUnavailable
		}
		return geo.Point{}, geocode.ErrNoResult
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return geo.Point{}, geocode.ErrNoResult
	}

	if len(payload.Results) == 0 {
		return geo.Point{}, geocode.ErrNoResult
	}

	geometry := payload.Results[0].Geometry
	if geometry.Lat == nil || geometry.Lng == nil {
		return geo.Point{}, geocode.ErrNoResult
	}

	point := geo.Point{Lat: *geometry.Lat, Lon: *geometry.Lng}

	c.logger.Debug().
		Float64("lat", point.Lat).
		Float64("lon", point.Lon).
		Msg("address resolved")

	return point, nil
}

// geocodeResponse represents the OpenCage forward geocoding response.
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"geometry"`
		Formatted  string `json:"formatted,omitempty"`
		Confidence int    `json:"confidence,omitempty"`
	} `json:"results"`
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	TotalResults int `json:"total_results"`
}
