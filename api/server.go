package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"weather-lookup/datasource"
	"weather-lookup/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Server represents the API server
type Server struct {
	provider datasource.WeatherProvider
	logger   *zap.Logger
	router   *mux.Router
	server   *http.Server
}

// NewServer creates a new API server backed by provider
func NewServer(provider datasource.WeatherProvider, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		provider: provider,
		logger:   logger,
		router:   mux.NewRouter(),
	}

	s.router.Use(s.requestID, s.logRequests)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not_found", "No route for "+r.URL.Path)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})

	// Current weather
	s.router.HandleFunc("/api/weather/city/{name}", s.handleGetWeatherByCity).Methods(http.MethodGet)
	s.router.HandleFunc("/api/weather/coordinates", s.handleGetWeatherByCoordinates).Methods(http.MethodGet)

	// Health check
	s.router.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server; it returns http.ErrServerClosed after Shutdown
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr), zap.String("provider", s.provider.Name()))
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleGetWeatherByCity(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		s.writeError(w, r, http.StatusBadRequest, "bad_input", "Location not specified")
		return
	}

	weather, err := s.provider.WeatherByCityName(r.Context(), name)
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, weather)
}

func (s *Server) handleGetWeatherByCoordinates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_input", "Invalid or missing lat")
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_input", "Invalid or missing lon")
		return
	}
	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_input", err.Error())
		return
	}

	weather, err := s.provider.WeatherByCoordinates(r.Context(), coords)
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, weather)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"provider":  s.provider.Name(),
		"timestamp": time.Now(),
	})
}

// writeFetchError maps a RequestError kind onto the response status. A
// provider 404 passes through; everything else is a bad gateway.
func (s *Server) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	kind := datasource.KindOf(err)
	status := http.StatusBadGateway
	switch {
	case errors.Is(r.Context().Err(), context.Canceled):
		// client went away; nobody reads this response
		status = http.StatusServiceUnavailable
	case kind == datasource.HTTPStatusError && datasource.StatusCodeOf(err) == http.StatusNotFound:
		status = http.StatusNotFound
	}

	s.logger.Warn("weather request failed",
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.Stringer("kind", kind),
		zap.Error(err))
	s.writeError(w, r, status, kind.String(), err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
		"kind":  kind,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// requestID reuses the caller's X-Request-ID or assigns a new one
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
			r.Header.Set(RequestIDHeader, reqID)
		}
		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("request_id", r.Header.Get(RequestIDHeader)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
