// Package server exposes the match analysis over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/pable/go-futsal-metrics/internal/analysis"
	"github.com/pable/go-futsal-metrics/internal/metrics"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/momentum"
)

// Pipeline is what the handlers need from the analysis service.
type Pipeline interface {
	Matches(ctx context.Context) ([]model.Match, error)
	Load(ctx context.Context, matchID string) (*analysis.Report, error)
	Smoothed(r *analysis.Report) momentum.Smoothed
	TopPlayers(r *analysis.Report, n int) []momentum.PlayerScore
	Settings() analysis.Settings
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request counts and latency on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// WithGatherer serves g on /metrics instead of the default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithClock overrides time.Now, used for the infographic timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server routes API requests to the pipeline.
type Server struct {
	pipeline Pipeline
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	now      func() time.Time
	handler  http.Handler
}

// New builds the router.
func New(p Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline: p,
		gatherer: prometheus.DefaultGatherer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware, metricsMiddleware(s.metrics))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.handleMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/timeline", s.withReport(s.handleTimeline)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/minutes", s.withReport(s.handleMinutes)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/momentum", s.withReport(s.handleMomentum)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/players", s.withReport(s.handlePlayers)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/stats", s.withReport(s.handleStats)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/palette", s.withReport(s.handlePalette)).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/infographic", s.withReport(s.handleInfographic)).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	// mux skips Use middleware for unmatched requests.
	router.NotFoundHandler = requestIDMiddleware(accessLogMiddleware(metricsMiddleware(s.metrics)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Errorf("no route for %s", r.URL.Path))
		}),
	)))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{headerRequestID},
	})
	return c.Handler(router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("http server stopped")
	return nil
}
