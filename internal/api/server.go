// Package api serves the dashboard views over HTTP and streams store
// updates over WebSocket.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/newthinker/signaldeck/internal/api/middleware"
	"github.com/newthinker/signaldeck/internal/metrics"
	"github.com/newthinker/signaldeck/internal/store"
	"github.com/newthinker/signaldeck/internal/view"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StateStore is the part of *store.Store the server uses.
type StateStore interface {
	State() store.State
	Refresh(ctx context.Context)
	Subscribe() (<-chan store.State, func())
}

// Backend serves the views that bypass the store.
type Backend interface {
	view.LogFetcher
	view.SettingsService
}

// Dependencies holds the components the routes call into.
type Dependencies struct {
	Store   StateStore
	Backend Backend
	Metrics *metrics.Registry // optional
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string // empty disables /metrics
}

// Server represents the local dashboard HTTP server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	router     chi.Router
	deps       Dependencies
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Store == nil || deps.Backend == nil {
		return nil, fmt.Errorf("store and backend are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger: logger,
		router: chi.NewRouter(),
		deps:   deps,
	}
	s.setupRoutes(cfg)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: it would cut /ws streams.
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) {
	r := s.router

	r.Use(chimw.Recoverer)
	r.Use(metrics.LoggingMiddleware(s.logger))
	if s.deps.Metrics != nil {
		r.Use(metrics.HTTPMiddleware(s.deps.Metrics))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Get("/health", s.handleHealth)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/signals", s.handleSignals)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/logs", s.handleLogs)
		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleSaveSettings)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Get("/ws", s.handleStream)

	if cfg.MetricsPath != "" && s.deps.Metrics != nil {
		r.Handle(cfg.MetricsPath, promhttp.HandlerFor(s.deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
