// Package server exposes the fractal pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                      liveness and build info
//	GET  /v1/fractals                  available fractal kinds
//	POST /v1/generate                  generate a point cloud (JSON)
//	POST /v1/discretise                bin posted points into a histogram (JSON)
//	GET  /v1/render/{kind}.{format}    run the full pipeline, return one artifact
//	GET  /v1/stream/{kind}             websocket stream of generated points
//
// Every request builds its own random source, so concurrent requests never
// share generator state. Requests without a seed get a server-chosen one,
// reported back so the result can be reproduced.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/pipeline"
)

const (
	// DefaultTimeout bounds non-streaming requests.
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes limits JSON request bodies.
	maxBodyBytes = 8 << 20

	shutdownGrace = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Runner  *pipeline.Runner
	Bounds  ifs.Bounds
	Timeout time.Duration
	Logger  *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	bounds  ifs.Bounds
	timeout time.Duration
	logger  *log.Logger
	router  chi.Router
}

// New builds the server and its routes. Nil fields get defaults.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, nil, opts.Logger)
	}
	if opts.Bounds == (ifs.Bounds{}) {
		opts.Bounds = ifs.DefaultBounds
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	s := &Server{
		runner:  opts.Runner,
		bounds:  opts.Bounds,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.timeout))
			r.Get("/fractals", s.handleFractals)
			r.Post("/generate", s.handleGenerate)
			r.Post("/discretise", s.handleDiscretise)
			r.Get("/render/{kind}.{format}", s.handleRender)
		})
		r.Get("/stream/{kind}", s.handleStream)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
