// Package api exposes mood analysis and video search over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"moodtunes/internal/mood"
	"moodtunes/internal/video"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 64 << 10
)

type Options struct {
	Debug bool
}

// Server routes the HTTP API. It holds no state between requests.
type Server struct {
	analyzer mood.Analyzer
	resolver video.Resolver
	router   chi.Router
}

func NewServer(analyzer mood.Analyzer, resolver video.Resolver, opts Options) *Server {
	s := &Server{analyzer: analyzer, resolver: resolver}

	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(requestTimeout))
	if opts.Debug {
		mux.Use(middleware.Logger)
	}

	mux.Get("/health", s.Health)
	mux.Route("/api", func(r chi.Router) {
		r.Get("/video-search", s.VideoSearch)
		r.Post("/analyze", s.Analyze)
	})
	s.router = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("api listening", "component", "api", "addr", ln.Addr().String())
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		slog.Info("api shutting down", "component", "api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		return <-serverErr
	}
}
