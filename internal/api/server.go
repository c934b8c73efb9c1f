// Package api exposes the forecast pipeline over HTTP: a request
// endpoint per city, city listing, health check, Prometheus metrics and
// a server-sent-events stream that re-invokes the (cached) pipeline on
// an interval.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/metrics"
	"github.com/atlasmet/extremecast/internal/models"
	"github.com/atlasmet/extremecast/internal/pipeline"
	"github.com/atlasmet/extremecast/internal/store"
)

const (
	defaultStreamInterval = 5 * time.Second
	minStreamInterval     = 1 * time.Second
	maxStreamInterval     = 60 * time.Second
)

// Config wires the server's collaborators.
type Config struct {
	Port           string
	Artifacts      map[string]string // city -> artifact directory
	Runner         *pipeline.Runner
	Archive        *store.Store // optional
	CacheTTL       time.Duration
	StreamInterval time.Duration
	CORSOrigins    []string
	Clock          clockwork.Clock
}

type Server struct {
	port           string
	artifacts      map[string]string
	runner         *pipeline.Runner
	archive        *store.Store
	cache          *forecastCache
	streamInterval time.Duration
	corsOrigins    []string
	clock          clockwork.Clock
}

func NewServer(cfg Config) *Server {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	interval := cfg.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &Server{
		port:           cfg.Port,
		artifacts:      cfg.Artifacts,
		runner:         cfg.Runner,
		archive:        cfg.Archive,
		cache:          newForecastCache(ttl, clock),
		streamInterval: interval,
		corsOrigins:    cfg.CORSOrigins,
		clock:          clock,
	}
}

// Handler returns the routed HTTP handler, CORS-wrapped.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/cities", s.handleCities)
	mux.HandleFunc("/forecast", s.handleForecast)
	mux.HandleFunc("/realtime", s.handleRealtime)
	mux.Handle("/metrics", promhttp.Handler())
	return s.cors(mux)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	cities := make([]string, 0, len(s.artifacts))
	for city := range s.artifacts {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	writeJSON(w, http.StatusOK, map[string][]string{"cities": cities})
}

type forecastRequest struct {
	CityName string `json:"city_name"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	city := normalizeCity(req.CityName)
	result, status, err := s.getForecast(city)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// getForecast resolves a city to its artifact bundle, serving from the
// TTL cache when fresh. Returns the HTTP status for any failure.
func (s *Server) getForecast(city string) (*models.Result, int, error) {
	dir, ok := s.artifacts[city]
	if !ok {
		cities := make([]string, 0, len(s.artifacts))
		for c := range s.artifacts {
			cities = append(cities, c)
		}
		sort.Strings(cities)
		return nil, http.StatusBadRequest, fmt.Errorf("unknown city %q, available: %s", city, strings.Join(cities, ", "))
	}

	if cached, ok := s.cache.get(city); ok {
		metrics.CacheHits.WithLabelValues(city, "hit").Inc()
		return cached, http.StatusOK, nil
	}
	metrics.CacheHits.WithLabelValues(city, "miss").Inc()

	start := s.clock.Now()
	result, err := s.runner.Run(dir)
	metrics.ForecastDuration.WithLabelValues(city).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrMissing):
			metrics.ForecastRequestsTotal.WithLabelValues(city, "artifact_missing").Inc()
			return nil, http.StatusNotFound, err
		case errors.Is(err, pipeline.ErrInsufficientHistory):
			metrics.ForecastRequestsTotal.WithLabelValues(city, "insufficient_history").Inc()
			return nil, http.StatusInternalServerError, err
		default:
			metrics.ForecastRequestsTotal.WithLabelValues(city, "error").Inc()
			return nil, http.StatusInternalServerError, err
		}
	}
	metrics.ForecastRequestsTotal.WithLabelValues(city, "ok").Inc()
	for sev, n := range result.Events.Summary.SeverityDistribution {
		metrics.EventsDetected.WithLabelValues(city, string(sev)).Add(float64(n))
	}

	s.cache.put(city, result)

	if s.archive != nil {
		if _, err := s.archive.SaveRun(city, result); err != nil {
			log.Printf("api: archive run for %s: %v", city, err)
		}
	}
	return result, http.StatusOK, nil
}

// streamPayload is one realtime tick: the first forecast day plus the
// current event summary.
type streamPayload struct {
	City          string               `json:"city"`
	GeneratedAt   string               `json:"generated_at"`
	Current       *models.ForecastDay  `json:"current"`
	EventsSummary *models.EventSummary `json:"events_summary"`
}

func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	city := normalizeCity(r.URL.Query().Get("city_name"))
	if _, ok := s.artifacts[city]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown city %q", city))
		return
	}

	interval := s.streamInterval
	if raw := r.URL.Query().Get("interval"); raw != "" {
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interval")
			return
		}
		interval = time.Duration(secs * float64(time.Second))
	}
	if interval < minStreamInterval {
		interval = minStreamInterval
	}
	if interval > maxStreamInterval {
		interval = maxStreamInterval
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !s.streamTick(w, flusher, city) {
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-ticker.Chan():
		}
	}
}

func (s *Server) streamTick(w http.ResponseWriter, flusher http.Flusher, city string) bool {
	result, _, err := s.getForecast(city)
	if err != nil {
		log.Printf("api: realtime %s: %v", city, err)
		return false
	}

	payload := streamPayload{
		City:          city,
		GeneratedAt:   result.Metadata.GeneratedAt,
		EventsSummary: &result.Events.Summary,
	}
	if len(result.Forecast) > 0 {
		payload.Current = &result.Forecast[0]
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("api: marshal stream payload: %v", err)
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

func normalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
