// Package lookup drives the weather screen: it turns search and location
// events into fetches and applies their results on the dispatcher.
package lookup

import (
	"context"
	"errors"
	"strings"
	"sync"

	"weather-lookup/datasource"
	"weather-lookup/dispatch"
	"weather-lookup/location"
	"weather-lookup/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoLocationProvider is reported when a location lookup is requested but
// none was configured
var ErrNoLocationProvider = errors.New("lookup: no location provider configured")

// Fetcher is the asynchronous weather API the controller drives
type Fetcher interface {
	FetchByCityName(ctx context.Context, name string, completion datasource.Completion)
	FetchByGeographicCoordinates(ctx context.Context, lat, lon float64, completion datasource.Completion)
}

// Screen is the presentation state. It is only read or written on the
// dispatcher.
type Screen struct {
	SearchText  string
	City        string
	Temperature string
	IconName    string
	// Pending counts requests issued but not yet handled
	Pending int
}

// Observer is called on the dispatcher after every handled outcome: err is
// nil for a displayed Weather, a *datasource.RequestError for a failed
// fetch, or the location error
type Observer func(screen Screen, err error)

// Option configures a Controller
type Option func(*Controller)

// WithSupersede makes each new request cancel the previous in-flight one and
// discard its result if it still arrives
func WithSupersede(enabled bool) Option {
	return func(c *Controller) { c.supersede = enabled }
}

// WithObserver registers fn to be told about every outcome
func WithObserver(fn Observer) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithLogger sets the logger; the default discards
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the screen state
type Controller struct {
	fetcher   Fetcher
	locator   location.Provider
	queue     dispatch.Dispatcher
	logger    *zap.Logger
	supersede bool
	observer  Observer

	screen Screen

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

// NewController wires a fetcher and an optional location provider to queue
func NewController(fetcher Fetcher, locator location.Provider, queue dispatch.Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		locator: locator,
		queue:   queue,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Screen returns a copy of the presentation state. Call it on the dispatcher.
func (c *Controller) Screen() Screen {
	return c.screen
}

// SetSearchText mirrors the search field's contents into the screen state
func (c *Controller) SetSearchText(text string) {
	c.async(func() { c.screen.SearchText = text })
}

// SearchSubmitted fetches weather for the typed city. Blank input is ignored.
func (c *Controller) SearchSubmitted(ctx context.Context, text string) {
	city := strings.TrimSpace(text)
	if city == "" {
		c.logger.Debug("ignoring empty search")
		return
	}

	reqCtx, gen, id := c.begin(ctx)
	c.logger.Debug("fetching weather by city name",
		zap.String("request_id", id), zap.String("city", city))
	c.fetcher.FetchByCityName(reqCtx, city, c.completion(gen, id))
}

// LocationRequested asks the location provider for a position and fetches
// weather there. Failures are logged and leave the screen untouched.
func (c *Controller) LocationRequested(ctx context.Context) {
	if c.locator == nil {
		c.LocationFailed(ErrNoLocationProvider)
		return
	}
	go func() {
		coords, err := c.locator.CurrentLocation(ctx)
		if err != nil {
			c.LocationFailed(err)
			return
		}
		c.LocationUpdated(ctx, coords)
	}()
}

// LocationUpdated fetches weather for a resolved position
func (c *Controller) LocationUpdated(ctx context.Context, coords models.Coordinates) {
	reqCtx, gen, id := c.begin(ctx)
	c.logger.Debug("fetching weather by coordinates",
		zap.String("request_id", id), zap.Stringer("coordinates", coords))
	c.fetcher.FetchByGeographicCoordinates(reqCtx, coords.Latitude, coords.Longitude, c.completion(gen, id))
}

// LocationFailed records a location error. No fallback fetch is attempted.
func (c *Controller) LocationFailed(err error) {
	c.logger.Error("location lookup failed", zap.Error(err))
	c.async(func() { c.notify(err) })
}

// begin registers a new request. In supersede mode it cancels the previous
// one.
func (c *Controller) begin(ctx context.Context) (context.Context, uint64, string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	reqCtx := ctx
	if c.supersede {
		if c.cancelPrev != nil {
			c.cancelPrev()
		}
		reqCtx, c.cancelPrev = context.WithCancel(ctx)
	}
	c.mu.Unlock()

	c.async(func() { c.screen.Pending++ })
	return reqCtx, gen, uuid.NewString()
}

// completion hands the result from the transport goroutine to the dispatcher
func (c *Controller) completion(gen uint64, id string) datasource.Completion {
	return func(r models.Result) {
		if !c.queue.Async(func() { c.apply(gen, id, r) }) {
			c.logger.Warn("dispatcher closed, dropping weather result", zap.String("request_id", id))
		}
	}
}

func (c *Controller) apply(gen uint64, id string, r models.Result) {
	if c.screen.Pending > 0 {
		c.screen.Pending--
	}

	if c.supersede && !c.release(gen) {
		c.logger.Debug("discarding stale weather result", zap.String("request_id", id))
		return
	}

	if r.Err != nil {
		c.logger.Error("weather request failed",
			zap.String("request_id", id),
			zap.Stringer("kind", datasource.KindOf(r.Err)),
			zap.Error(r.Err))
		c.notify(r.Err)
		return
	}

	c.screen.SearchText = ""
	c.screen.City = r.Weather.Name()
	c.screen.Temperature = r.Weather.Temperature()
	c.screen.IconName = r.Weather.WeatherIconName()
	c.logger.Info("weather updated",
		zap.String("request_id", id),
		zap.String("city", c.screen.City),
		zap.String("temperature", c.screen.Temperature),
		zap.String("icon", c.screen.IconName))
	c.notify(nil)
}

// release reports whether gen is the newest request and, if so, frees its
// context
func (c *Controller) release(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	if c.cancelPrev != nil {
		c.cancelPrev()
		c.cancelPrev = nil
	}
	return true
}

func (c *Controller) notify(err error) {
	if c.observer != nil {
		c.observer(c.screen, err)
	}
}

func (c *Controller) async(task func()) {
	if !c.queue.Async(task) {
		c.logger.Warn("dispatcher closed, dropping screen update")
	}
}
