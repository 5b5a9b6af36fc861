// Package server runs the formcheck HTTP API.
//
// Endpoints:
//   - POST /validate: validate every field of a form or JSON body
//   - POST /validate/{field}: validate one field
//   - GET /rules: list the configured fields and rules
//
// Validation responses carry the JSON result with status 200 when valid and
// 422 when not. Requests whose values cannot be read get a 400.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SimonDaKappa/go-formcheck/internal/config"
	"github.com/SimonDaKappa/go-formcheck/internal/logger"
)

var (
	ErrStart    = errors.New("server failed to start")
	ErrShutdown = errors.New("server shutdown failed")
)

const defaultShutdownTimeout = 10 * time.Second

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *logger.Logger
}

// New returns a server for handler configured by cfg.
func New(cfg config.Server, handler http.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("server started")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrStart, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: %w", ErrShutdown, err)
		}
		s.logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}
