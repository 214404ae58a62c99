// Package location resolves the device's current position.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"weather-lookup/models"
)

// DefaultLookupURL asks wttr.in to geolocate the caller by IP
const DefaultLookupURL = "https://wttr.in/?format=j1"

// ErrNoLocation is returned when a lookup succeeds but carries no position
var ErrNoLocation = errors.New("location: no position in response")

// Provider yields a single best-effort position
type Provider interface {
	CurrentLocation(ctx context.Context) (models.Coordinates, error)
}

// Static always reports the same coordinates
type Static struct {
	Coordinates models.Coordinates
}

func (s Static) CurrentLocation(ctx context.Context) (models.Coordinates, error) {
	if err := s.Coordinates.Validate(); err != nil {
		return models.Coordinates{}, fmt.Errorf("location: %w", err)
	}
	return s.Coordinates, nil
}

// IPLocator resolves the position from the nearest_area block of a
// wttr.in j1 response
type IPLocator struct {
	url    string
	client *http.Client
}

// NewIPLocator creates a locator for url; an empty url uses DefaultLookupURL
func NewIPLocator(url string, timeout time.Duration) *IPLocator {
	if url == "" {
		url = DefaultLookupURL
	}
	return &IPLocator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// maxBodySize caps how much of the lookup response is read
const maxBodySize = 1 << 20

type j1Response struct {
	NearestArea []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"nearest_area"`
}

func (l *IPLocator) CurrentLocation(ctx context.Context) (models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("location: failed to create request: %w", err)
	}
	// wttr.in serves HTML to browsers
	req.Header.Set("User-Agent", "curl")

	resp, err := l.client.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("location: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, fmt.Errorf("location: lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("location: failed to read response body: %w", err)
	}

	var j1 j1Response
	if err := json.Unmarshal(body, &j1); err != nil {
		return models.Coordinates{}, fmt.Errorf("location: failed to parse response: %w", err)
	}
	if len(j1.NearestArea) == 0 {
		return models.Coordinates{}, ErrNoLocation
	}

	lat, err := strconv.ParseFloat(j1.NearestArea[0].Latitude, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("location: bad latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(j1.NearestArea[0].Longitude, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("location: bad longitude: %w", err)
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		return models.Coordinates{}, fmt.Errorf("location: %w", err)
	}
	return coords, nil
}

var (
	_ Provider = Static{}
	_ Provider = (*IPLocator)(nil)
)
