package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stocklane/api/internal/config"
	"github.com/stocklane/api/pkg/logger"
)

// Server wraps http.Server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
	stop       func()
}

// NewServer creates the HTTP server around the given handler. The stop
// function is invoked during shutdown to release router resources.
func NewServer(cfg *config.Config, h http.Handler, stop func(), log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      h,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  time.Minute,
		},
		config: cfg,
		logger: log,
		stop:   stop,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.config.Server.Addr())

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if s.stop != nil {
		s.stop()
	}
	return s.httpServer.Shutdown(ctx)
}
