package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-lookup/models"
)

// Provider names accepted by NewProvider
const (
	OpenWeatherMap = "openweathermap"
	WeatherAPI     = "weatherapi"
)

// Options configures a provider. Zero values select the provider defaults.
type Options struct {
	APIKey  string
	BaseURL string
	Units   models.Units
	// Timeout of 0 leaves the transport default in place
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.Timeout}
}

func (o Options) units() models.Units {
	if o.Units == "" {
		return models.Metric
	}
	return o.Units
}

// NewProvider creates the provider registered under name
func NewProvider(name string, opts Options) (WeatherProvider, error) {
	switch strings.ToLower(name) {
	case OpenWeatherMap:
		return NewOpenWeatherMapProvider(opts), nil
	case WeatherAPI:
		return NewWeatherAPIProvider(opts), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}

// maxBodySize caps how much of a provider response is read
const maxBodySize = 1 << 20

// getJSON performs a single GET and decodes a 2xx body into out.
// errMessage extracts the provider's error text from a non-2xx body.
func getJSON(ctx context.Context, client *http.Client, provider, endpoint string, params url.Values, out any, errMessage func([]byte) string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return networkError(provider, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return networkError(provider, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return networkError(provider, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(provider, resp.StatusCode, errMessage(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(provider, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}
