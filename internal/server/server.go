// Package server exposes the pipeline over HTTP.
//
// Repositories are addressed by the names configured in the [repos] table;
// the server never opens a path taken from a request. Every error response
// has the shape {"error":{"code":"...","message":"..."}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gitlanes/pkg/pipeline"
	"github.com/matzehuels/gitlanes/pkg/store"
)

const (
	// maxBodyBytes bounds request bodies; a feed at MaxLimit fits comfortably.
	maxBodyBytes = 64 << 20

	shutdownTimeout = 10 * time.Second
)

// Config holds the server's dependencies.
type Config struct {
	// Repos maps public names to repository paths.
	Repos map[string]string

	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// Server routes API requests to the pipeline and snapshot store.
type Server struct {
	repos  map[string]string
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New builds a server. A nil Runner runs without a cache and a nil Store
// keeps snapshots in memory.
func New(cfg Config) *Server {
	s := &Server{
		repos:  cfg.Repos,
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.repos == nil {
		s.repos = map[string]string{}
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/repos", s.handleListRepos)
		r.Get("/repos/{name}/graph", s.handleRepoGraph)
		r.Post("/layout", s.handleLayout)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Post("/snapshots", s.handleCreateSnapshot)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s", r.URL.Path))
	})
	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "repos", len(s.repos))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
