package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/commercemesh/catalog-sync/internal/platform/config"
)

// fallbackShutdownTimeout caps Shutdown when the caller passes a context
// without a deadline, so a hung sync request cannot stall process exit.
const fallbackShutdownTimeout = 10 * time.Second

// Server owns the listener lifecycle for the sync service's inbound API.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds the server from the resolved config. A nil logger is
// replaced with a discarding one.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Start serves until Shutdown is called or the listener fails. A graceful
// shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.srv.Addr))

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests. If
// ctx carries no deadline the fallback timeout applies.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fallbackShutdownTimeout)
		defer cancel()
	}

	s.logger.Info("http server draining")
	return s.srv.Shutdown(ctx)
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}
