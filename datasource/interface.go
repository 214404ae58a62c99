package datasource

import (
	"context"

	"weather-lookup/models"
)

// WeatherProvider is an interface for services that can fetch current weather.
// Implementations perform exactly one HTTP request per call and return a
// *RequestError on failure.
type WeatherProvider interface {
	// WeatherByCityName fetches current weather for a place name
	WeatherByCityName(ctx context.Context, name string) (models.Weather, error)

	// WeatherByCoordinates fetches current weather for a lat/lon pair
	WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error)

	// Name returns the provider's name
	Name() string
}
