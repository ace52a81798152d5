package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web
var webFS embed.FS

const (
	readTimeout     = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server serves the browser info panel, the panel websocket, metrics and health
type Server struct {
	log  *slog.Logger
	hub  *Hub
	http *http.Server
}

// New creates a server listening on port
func New(log *slog.Logger, hub *Hub, gatherer prometheus.Gatherer, port int) *Server {
	s := &Server{log: log, hub: hub}
	s.http = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     s.routes(gatherer),
		ReadTimeout: readTimeout,
	}
	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.log.Error("failed to write reply", "error", err)
		}
	})
	return mux
}

// Run serves until ctx is done and then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting panel server", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("panel server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("panel server shutdown: %w", err)
	}
	s.log.Info("Panel server stopped")
	return nil
}
