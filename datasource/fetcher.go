package datasource

import (
	"context"

	"weather-lookup/models"
)

// Completion receives the outcome of an asynchronous fetch. It runs on a
// background goroutine; callers hand it off to their own context before
// touching presentation state.
type Completion func(models.Result)

// Fetcher exposes a WeatherProvider through the non-blocking callback API.
// Every call performs a fresh request; nothing is cached or retried.
type Fetcher struct {
	provider WeatherProvider
}

// NewFetcher creates a fetcher backed by provider
func NewFetcher(provider WeatherProvider) *Fetcher {
	return &Fetcher{provider: provider}
}

// Name returns the underlying provider's name
func (f *Fetcher) Name() string {
	return f.provider.Name()
}

// FetchByCityName starts a lookup by place name and returns immediately
func (f *Fetcher) FetchByCityName(ctx context.Context, name string, completion Completion) {
	go func() {
		w, err := f.provider.WeatherByCityName(ctx, name)
		deliver(completion, w, err)
	}()
}

// FetchByGeographicCoordinates starts a lookup by latitude and longitude and returns immediately
func (f *Fetcher) FetchByGeographicCoordinates(ctx context.Context, lat, lon float64, completion Completion) {
	go func() {
		w, err := f.provider.WeatherByCoordinates(ctx, models.Coordinates{Latitude: lat, Longitude: lon})
		deliver(completion, w, err)
	}()
}

func deliver(completion Completion, w models.Weather, err error) {
	if completion == nil {
		return
	}
	if err != nil {
		completion(models.Failure(err))
		return
	}
	completion(models.Success(w))
}
