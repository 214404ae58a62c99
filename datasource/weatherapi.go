package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"weather-lookup/models"
)

const weatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider fetches current weather from weatherapi.com
type WeatherAPIProvider struct {
	apiKey     string
	baseURL    string
	units      models.Units
	httpClient *http.Client
}

// NewWeatherAPIProvider creates a new WeatherAPI provider
func NewWeatherAPIProvider(opts Options) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = weatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		units:      opts.units(),
		httpClient: opts.client(),
	}
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

// WeatherByCityName fetches current weather for a place name
func (p *WeatherAPIProvider) WeatherByCityName(ctx context.Context, name string) (models.Weather, error) {
	return p.fetch(ctx, name)
}

// WeatherByCoordinates fetches current weather; the API takes "lat,lon" in q
func (p *WeatherAPIProvider) WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error) {
	return p.fetch(ctx, coords.String())
}

type weatherAPIResponse struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		TempF     *float64 `json:"temp_f"`
		Condition struct {
			Code int `json:"code"`
		} `json:"condition"`
	} `json:"current"`
}

func (p *WeatherAPIProvider) fetch(ctx context.Context, query string) (models.Weather, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("key", p.apiKey)

	var response weatherAPIResponse
	if err := getJSON(ctx, p.httpClient, p.Name(), p.baseURL+"/current.json", params, &response, weatherAPIErrorMessage); err != nil {
		return models.Weather{}, err
	}

	if response.Current == nil {
		return models.Weather{}, decodeError(p.Name(), errors.New("response has no current conditions"))
	}

	temp := response.Current.TempC
	if p.units == models.Imperial {
		temp = response.Current.TempF
	}
	if temp == nil {
		return models.Weather{}, decodeError(p.Name(), errors.New("response has no temperature"))
	}

	return models.NewWeather(response.Location.Name, *temp, p.units, models.WeatherAPIConditions, response.Current.Condition.Code), nil
}

// weatherAPIErrorMessage reads {"error":{"code":1006,"message":"No matching location found."}}
func weatherAPIErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Error.Message
	}
	return ""
}
