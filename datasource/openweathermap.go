package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"weather-lookup/models"
)

const openWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherMapProvider fetches current weather from the OpenWeatherMap API
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	units      models.Units
	httpClient *http.Client
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider(opts Options) *OpenWeatherMapProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = openWeatherMapBaseURL
	}
	return &OpenWeatherMapProvider{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		units:      opts.units(),
		httpClient: opts.client(),
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

// WeatherByCityName fetches current weather using the q parameter
func (p *OpenWeatherMapProvider) WeatherByCityName(ctx context.Context, name string) (models.Weather, error) {
	params := url.Values{}
	params.Add("q", name)
	return p.fetch(ctx, params)
}

// WeatherByCoordinates fetches current weather using lat and lon
func (p *OpenWeatherMapProvider) WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	return p.fetch(ctx, params)
}

// owmResponse is the subset of the current weather payload we display.
// Temp is a pointer so a missing value is a decode error rather than 0°.
type owmResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
}

func (p *OpenWeatherMapProvider) fetch(ctx context.Context, params url.Values) (models.Weather, error) {
	params.Add("appid", p.apiKey)
	params.Add("units", string(p.units))

	var response owmResponse
	if err := getJSON(ctx, p.httpClient, p.Name(), p.baseURL+"/weather", params, &response, owmErrorMessage); err != nil {
		return models.Weather{}, err
	}

	if response.Main == nil || response.Main.Temp == nil {
		return models.Weather{}, decodeError(p.Name(), errors.New("response has no main.temp"))
	}

	// A missing condition falls through to the table's fallback icon
	code := -1
	if len(response.Weather) > 0 {
		code = response.Weather[0].ID
	}

	return models.NewWeather(response.Name, *response.Main.Temp, p.units, models.OpenWeatherMapConditions, code), nil
}

// owmErrorMessage reads {"cod":"404","message":"city not found"}
func owmErrorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Message
	}
	return ""
}
