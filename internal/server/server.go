// Package server wraps the gin engine in an http.Server with graceful
// shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server represents the HTTP server.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

// New creates a server for the given router.
func New(router *gin.Engine, addr string, logger zerolog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting at most five seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	return s.http.Shutdown(ctx)
}
