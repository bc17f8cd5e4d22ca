// Package api serves the tracker portal: HTML pages, JSON endpoints, the
// bundled reference data and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	apihandler "github.com/anystockai/tracker/internal/api/handler/api"
	"github.com/anystockai/tracker/internal/api/handler/web"
	"github.com/anystockai/tracker/internal/app"
	"github.com/anystockai/tracker/internal/core"
	"github.com/anystockai/tracker/internal/metrics"
	"github.com/anystockai/tracker/internal/refdata"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the tracker's HTTP server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	TemplatesDir string
	MetricsPath  string
}

// Dependencies are the components the routes are served from.
type Dependencies struct {
	App      *app.App
	Holdings []core.HoldingEntry
	// Assets holds the reference data files; defaults to the embedded set.
	Assets fs.FS
	// Metrics is optional; nil disables /metrics and the HTTP metrics.
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Assets == nil {
		deps.Assets = refdata.Assets()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	mux := http.NewServeMux()

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger.Named("http"))(handler)

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
		deps:   deps,
	}

	if err := s.setupRoutes(cfg); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) error {
	webHandler, err := web.NewHandler(cfg.TemplatesDir, s.deps.App, s.deps.Holdings, s.logger.Named("web"))
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	// Pages
	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)
	s.mux.HandleFunc("GET /holdings", webHandler.Holdings)

	// Actions, POST-redirect-GET back to the dashboard
	for path, h := range map[string]http.HandlerFunc{
		"/signal":  webHandler.Signal,
		"/history": webHandler.History,
		"/prices":  webHandler.Prices,
	} {
		s.mux.HandleFunc("GET "+path, h)
		s.mux.HandleFunc("POST "+path, h)
	}
	s.mux.HandleFunc("GET /select", webHandler.Select)

	// Fragments
	s.mux.HandleFunc("GET /partials/realtime", webHandler.Realtime)
	s.mux.HandleFunc("GET /partials/suggestions", webHandler.Suggestions)

	// JSON API
	stateHandler := apihandler.NewStateHandler(s.deps.App)
	suggestHandler := apihandler.NewSuggestHandler(s.deps.App)
	holdingsHandler := apihandler.NewHoldingsHandler(s.deps.Holdings)
	s.mux.HandleFunc("GET /api/v1/state", stateHandler.State)
	s.mux.HandleFunc("GET /api/v1/realtime", stateHandler.Realtime)
	s.mux.HandleFunc("GET /api/v1/suggest", suggestHandler.Suggest)
	s.mux.HandleFunc("GET /api/v1/holdings", holdingsHandler.List)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Reference data, served byte for byte
	for _, name := range []string{refdata.SymbolsFile, refdata.HoldingsFile} {
		s.mux.HandleFunc("GET /"+name, s.serveAsset(name))
	}

	if s.deps.Metrics != nil {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(s.deps.Metrics, promhttp.HandlerOpts{}))
	}

	return nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{"status": "ok"}
	if s.deps.App != nil {
		for k, v := range s.deps.App.GetStats() {
			stats[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) serveAsset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFileFS(w, r, s.deps.Assets, name)
	}
}
