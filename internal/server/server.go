// Package server exposes a parsed schema as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the API server.
type Config struct {
	Addr   string
	Logger *slog.Logger
}

// Server serves the current schema. The schema is replaced as a whole by
// Update and never mutated in place, so handlers only need a read lock to
// fetch it.
type Server struct {
	addr   string
	logger *slog.Logger

	mu      sync.RWMutex
	schema  *schema.Schema
	updated time.Time
}

// New creates a server with an empty schema.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:    cfg.Addr,
		logger:  logger,
		schema:  schema.New(),
		updated: time.Now(),
	}
}

// Update replaces the served schema. The caller must not modify s afterwards.
func (s *Server) Update(sch *schema.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = sch
	s.updated = time.Now()
}

func (s *Server) current() (*schema.Schema, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema, s.updated
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.logRequests,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleTables)
		r.Get("/{name}", s.handleTable)
	})
	r.Get("/ignored", s.handleIgnored)
	r.Get("/render", s.handleRender)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// logRequests logs each request through the server's logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
