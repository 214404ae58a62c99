package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"weather-lookup/models"
)

type stubProvider struct {
	calls   atomic.Int32
	weather models.Weather
	err     error
	coords  chan models.Coordinates
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) WeatherByCityName(ctx context.Context, name string) (models.Weather, error) {
	s.calls.Add(1)
	return s.weather, s.err
}

func (s *stubProvider) WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error) {
	s.calls.Add(1)
	if s.coords != nil {
		s.coords <- coords
	}
	return s.weather, s.err
}

func await(t *testing.T, ch <-chan models.Result) models.Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("completion was not called")
		return models.Result{}
	}
}

func TestFetcherDeliversSuccess(t *testing.T) {
	want := models.NewWeather("Oslo", -3.2, models.Metric, models.OpenWeatherMapConditions, 600)
	stub := &stubProvider{weather: want}
	f := NewFetcher(stub)

	done := make(chan models.Result, 1)
	f.FetchByCityName(context.Background(), "Oslo", func(r models.Result) { done <- r })

	r := await(t, done)
	if !r.OK() {
		t.Fatalf("expected success, got %v", r.Err)
	}
	if r.Weather != want {
		t.Errorf("weather = %+v, want %+v", r.Weather, want)
	}
}

func TestFetcherDeliversFailure(t *testing.T) {
	stub := &stubProvider{err: decodeError("stub", errors.New("bad"))}
	f := NewFetcher(stub)

	done := make(chan models.Result, 1)
	f.FetchByGeographicCoordinates(context.Background(), 1, 2, func(r models.Result) { done <- r })

	r := await(t, done)
	if r.OK() || !errors.Is(r.Err, ErrDecode) {
		t.Fatalf("expected decode failure, got %+v", r)
	}
}

func TestFetcherPassesCoordinates(t *testing.T) {
	stub := &stubProvider{coords: make(chan models.Coordinates, 1)}
	f := NewFetcher(stub)

	f.FetchByGeographicCoordinates(context.Background(), 59.91, 10.75, nil)

	select {
	case c := <-stub.coords:
		if c.Latitude != 59.91 || c.Longitude != 10.75 {
			t.Errorf("coords = %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("provider was not called")
	}
}

func TestFetcherDoesNotCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(owmLondon))
	}))
	defer srv.Close()

	f := NewFetcher(NewOpenWeatherMapProvider(Options{BaseURL: srv.URL}))
	done := make(chan models.Result, 2)
	f.FetchByCityName(context.Background(), "London", func(r models.Result) { done <- r })
	f.FetchByCityName(context.Background(), "London", func(r models.Result) { done <- r })
	await(t, done)
	await(t, done)

	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestFetcherCanceledContextIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	f := NewFetcher(NewOpenWeatherMapProvider(Options{BaseURL: srv.URL}))
	done := make(chan models.Result, 1)
	f.FetchByCityName(ctx, "London", func(r models.Result) { done <- r })
	cancel()

	r := await(t, done)
	if KindOf(r.Err) != NetworkError {
		t.Fatalf("expected network error, got %v", r.Err)
	}
}

func TestRateLimitedProvider(t *testing.T) {
	stub := &stubProvider{}
	p := NewRateLimitedProvider(stub, 0.001, 1)

	if p.Name() != "stub [Rate Limited]" {
		t.Errorf("name = %q", p.Name())
	}

	// The first call consumes the burst
	if _, err := p.WeatherByCityName(context.Background(), "a"); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.WeatherByCoordinates(ctx, models.Coordinates{})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected limiter wait to fail as network error, got %v", err)
	}
	if stub.calls.Load() != 1 {
		t.Errorf("wrapped provider calls = %d, want 1", stub.calls.Load())
	}
}
