package datasource

import (
	"context"
	"fmt"

	"weather-lookup/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a WeatherProvider with a token bucket shared by
// both query shapes
type RateLimitedProvider struct {
	provider WeatherProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider creates a new rate limited provider.
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedProvider(provider WeatherProvider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// WeatherByCityName waits for the limiter, then forwards to the wrapped provider
func (r *RateLimitedProvider) WeatherByCityName(ctx context.Context, name string) (models.Weather, error) {
	if err := r.wait(ctx); err != nil {
		return models.Weather{}, err
	}
	return r.provider.WeatherByCityName(ctx, name)
}

// WeatherByCoordinates waits for the limiter, then forwards to the wrapped provider
func (r *RateLimitedProvider) WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error) {
	if err := r.wait(ctx); err != nil {
		return models.Weather{}, err
	}
	return r.provider.WeatherByCoordinates(ctx, coords)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// A request that never left the process is reported as a network failure
func (r *RateLimitedProvider) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return networkError(r.name, fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return nil
}

var _ WeatherProvider = (*RateLimitedProvider)(nil)
