// Package server exposes rendered documents over HTTP.
//
// Routes:
//
//	POST   /documents              render a topology, start a session
//	GET    /documents              list session ids
//	GET    /documents/{id}         the committed SVG
//	POST   /documents/{id}/update  apply a partial update
//	DELETE /documents/{id}         end a session
//	GET    /healthz, /version
//
// Documents live in a [session.Store] between requests. Updates to one
// document are serialised; updates to different documents run in parallel.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/session"
)

// Defaults.
const (
	DefaultMaxBodyBytes = 8 << 20
	DefaultTTL          = session.DefaultTTL
	shutdownTimeout     = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  session.Store
	Logger *log.Logger

	// TTL is the lifetime of a session after its last update.
	TTL time.Duration
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64
}

// Server is the HTTP service.
type Server struct {
	runner  *pipeline.Runner
	store   session.Store
	logger  *log.Logger
	ttl     time.Duration
	maxBody int64

	locks  sync.Map // session id → *sync.Mutex
	router chi.Router
}

// New builds a server and its routes. A nil store keeps sessions in memory.
func New(cfg Config) *Server {
	s := &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		logger:  cfg.Logger,
		ttl:     cfg.TTL,
		maxBody: cfg.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/update", s.handleUpdate)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// lock serialises work on one document and returns the unlock function.
func (s *Server) lock(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
