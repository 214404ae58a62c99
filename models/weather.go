package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Units selects the temperature scale requested from a provider
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits validates a units name from configuration
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Metric, Imperial:
		return Units(s), nil
	default:
		return "", fmt.Errorf("unknown units %q (want %q or %q)", s, Metric, Imperial)
	}
}

// Symbol returns the suffix appended to a formatted temperature
func (u Units) Symbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// FormatTemperature rounds half away from zero and appends the unit symbol.
// Negative zero is printed as 0.
func FormatTemperature(value float64, units Units) string {
	rounded := math.Round(value)
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64) + units.Symbol()
}

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the pair is within the geographic range
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

// Weather holds the display fields decoded from one provider response.
// It is immutable; use NewWeather to build one.
type Weather struct {
	name            string
	temperature     string
	weatherIconName string
}

// NewWeather formats the temperature and resolves the icon for a condition code
func NewWeather(name string, temperature float64, units Units, icons ConditionTable, conditionCode int) Weather {
	return Weather{
		name:            name,
		temperature:     FormatTemperature(temperature, units),
		weatherIconName: icons.IconName(conditionCode),
	}
}

func (w Weather) Name() string            { return w.name }
func (w Weather) Temperature() string     { return w.temperature }
func (w Weather) WeatherIconName() string { return w.weatherIconName }

type weatherJSON struct {
	Name            string `json:"name"`
	Temperature     string `json:"temperature"`
	WeatherIconName string `json:"weatherIconName"`
}

// MarshalJSON exposes the display fields to API clients
func (w Weather) MarshalJSON() ([]byte, error) {
	return json.Marshal(weatherJSON{
		Name:            w.name,
		Temperature:     w.temperature,
		WeatherIconName: w.weatherIconName,
	})
}

// Result is the outcome of one fetch: a Weather or an error, never both
type Result struct {
	Weather Weather
	Err     error
}

// Success wraps a decoded Weather
func Success(w Weather) Result {
	return Result{Weather: w}
}

// Failure wraps a request error
func Failure(err error) Result {
	return Result{Err: err}
}

// OK reports whether the result carries a Weather
func (r Result) OK() bool {
	return r.Err == nil
}
