// Package server exposes theme recoloring over HTTP.
//
// # Overview
//
// [Server] routes requests with chi:
//
//	GET    /healthz                  liveness probe
//	GET    /themes                   installed theme names
//	GET    /themes/{theme}           descriptor summary and active configuration
//	PUT    /themes/{theme}/palette   generate and activate a bundle
//	DELETE /themes/{theme}/palette   reset the theme to its stock colors
//	GET    /assets/{bundle}/{file}   a generated file
//	POST   /cache/invalidate         bump cache tags (default library_info)
//	GET    /metrics                  Prometheus metrics
//
// Errors are written as RFC 7807 problem documents. The status is derived
// from the error code; see [StatusFor].
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/recolor/pkg/bundle"
	"github.com/matzehuels/recolor/pkg/store"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ThemesDir holds one directory per installed theme.
	ThemesDir string

	// ThemesURL is the public URL ThemesDir is served under. When set,
	// stylesheet references to stock theme files are rewritten against
	// <ThemesURL>/<theme>/.
	ThemesURL string
}

// Server is the recolor HTTP server.
type Server struct {
	cfg        Config
	gen        *bundle.Generator
	store      store.Store
	logger     *log.Logger
	gatherer   prometheus.Gatherer
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. A nil gatherer serves the default Prometheus
// registry. A nil logger uses the default logger.
func New(cfg Config, gen *bundle.Generator, st store.Store, gatherer prometheus.Gatherer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		cfg:      cfg,
		gen:      gen,
		store:    st,
		logger:   logger,
		gatherer: gatherer,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger, "/healthz", "/metrics"),
		versionMiddleware,
	)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/themes", s.handleListThemes)
	r.Get("/themes/{theme}", s.handleGetTheme)
	r.Put("/themes/{theme}/palette", s.handleSetPalette)
	r.Delete("/themes/{theme}/palette", s.handleResetPalette)
	r.Get("/assets/{bundle}/{file}", s.handleAsset)
	r.Post("/cache/invalidate", s.handleInvalidate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, Problem{
			Type:     problemBase + "NOT_FOUND",
			Title:    http.StatusText(http.StatusNotFound),
			Status:   http.StatusNotFound,
			Instance: r.URL.Path,
		})
	})
	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP requests until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
