// Package server exposes the exporter over HTTP for editor integrations.
//
// The API serves repository listings, encoded documents (with optional
// JSONPath selection), rendered markdown and graph visualizations, export
// history, and a websocket feed of asset change events. Rendering goes
// through the shared pipeline Runner, so HTTP responses benefit from the
// same artifact cache as the CLI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/monitor"
	"github.com/mverhagen/bpdoc/pkg/pipeline"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8484"

// shutdownTimeout bounds graceful shutdown once the context is canceled.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// Repo answers asset listings and resolution. Required.
	Repo registry.Repository

	// Runner renders documents and artifacts. Defaults to a runner with
	// caching disabled.
	Runner *pipeline.Runner

	// Events feeds the /api/watch websocket. A nil source disables the
	// endpoint.
	Events monitor.Source

	// Export carries the render settings applied to HTTP responses.
	Export pipeline.Options

	// Logger receives request and lifecycle logs. Defaults to a discard
	// logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Repo == nil {
		return errors.New(errors.ErrCodeInvalidInput, "server requires a repository")
	}
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	if o.Runner == nil {
		o.Runner = pipeline.NewRunner(nil, nil, o.Logger)
	}
	return o.Export.ValidateAndSetDefaults()
}

// Server serves the HTTP API.
type Server struct {
	addr   string
	repo   registry.Repository
	runner *pipeline.Runner
	events monitor.Source
	export pipeline.Options
	log    *log.Logger
}

// New creates a server from options.
func New(opts Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Server{
		addr:   opts.Addr,
		repo:   opts.Repo,
		runner: opts.Runner,
		events: opts.Events,
		export: opts.Export,
		log:    opts.Logger,
	}, nil
}

// Handler assembles the router. Exposed so tests can drive the API through
// httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(recoverer(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/assets", s.handleListAssets)
		r.Get("/assets/{name}", s.handleAssetDocument)
		r.Get("/assets/{name}/markdown", s.handleAssetMarkdown)
		r.Get("/assets/{name}/graphs/{graph}.svg", s.handleGraphSVG)
		r.Get("/history", s.handleHistory)
		if s.events != nil {
			r.Get("/watch", s.handleWatch)
		}
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "server shutdown failed")
		}
		<-errCh
		s.log.Info("server stopped")
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeInternal, err, "server failed")
		}
		return nil
	}
}
