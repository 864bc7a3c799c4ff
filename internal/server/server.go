// Package server builds the HTTP listeners of the sample data service.
//
// Router Architecture:
//
//	The public listener carries only application routes (GET /data) behind
//	the request-id, tracing, logging/metrics and recovery middleware. HEAD is
//	answered by the matching GET route. The admin listener carries health,
//	readiness and /metrics so that operational endpoints never widen the
//	public surface.
//
//	chi requires all middleware to be registered before any routes; both
//	routers below register middleware first and routes last.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/requestctx"
)

// Options configure the HTTP servers.
type Options struct {
	Addr              string
	AdminAddr         string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Logger            *logging.Logger

	// RegisterRoutes adds application routes to the public router.
	RegisterRoutes func(chi.Router)
	// RegisterAdminRoutes adds status routes to the admin router.
	RegisterAdminRoutes func(chi.Router)
	// OnShutdown runs once when shutdown begins, before listeners close.
	OnShutdown func()
}

// Server owns the public and admin http.Servers.
type Server struct {
	public          *http.Server
	admin           *http.Server
	logger          *logging.Logger
	shutdownTimeout time.Duration
	onShutdown      func()
}

// New constructs both servers. Routers are built once here and are
// read-only afterwards.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.OnShutdown == nil {
		opts.OnShutdown = func() {}
	}

	return &Server{
		public: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewPublicRouter(opts),
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
		},
		admin: &http.Server{
			Addr:              opts.AdminAddr,
			Handler:           NewAdminRouter(opts),
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
		},
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
		onShutdown:      opts.OnShutdown,
	}
}

// NewPublicRouter returns the router served on the public listener.
func NewPublicRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	router := chi.NewRouter()
	router.Use(requestctx.Middleware)
	router.Use(middleware.RealIP)
	router.Use(tracing)
	router.Use(instrument(logger))
	router.Use(recoverer(logger))
	router.Use(middleware.GetHead)

	router.NotFound(notFound(logger))
	router.MethodNotAllowed(methodNotAllowed(logger))

	if opts.RegisterRoutes != nil {
		opts.RegisterRoutes(router)
	}
	return router
}

// NewAdminRouter returns the router served on the admin listener.
func NewAdminRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	router := chi.NewRouter()
	router.Use(requestctx.Middleware)
	router.Use(recoverer(logger))
	router.Use(middleware.GetHead)

	router.NotFound(notFound(logger))
	router.MethodNotAllowed(methodNotAllowed(logger))

	router.Handle("/metrics", promhttp.Handler())
	if opts.RegisterAdminRoutes != nil {
		opts.RegisterAdminRoutes(router)
	}
	return router
}

// Handler returns the public handler.
func (s *Server) Handler() http.Handler { return s.public.Handler }

// AdminHandler returns the admin handler.
func (s *Server) AdminHandler() http.Handler { return s.admin.Handler }

// Run listens on both addresses and serves until ctx is cancelled or a
// listener fails, then shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	publicLn, err := net.Listen("tcp", s.public.Addr)
	if err != nil {
		return fmt.Errorf("listen public %s: %w", s.public.Addr, err)
	}
	adminLn, err := net.Listen("tcp", s.admin.Addr)
	if err != nil {
		publicLn.Close()
		return fmt.Errorf("listen admin %s: %w", s.admin.Addr, err)
	}
	return s.Serve(ctx, publicLn, adminLn)
}

// Serve is Run on already-open listeners.
func (s *Server) Serve(ctx context.Context, publicLn, adminLn net.Listener) error {
	errCh := make(chan error, 2)
	serve := func(name string, srv *http.Server, ln net.Listener) {
		s.logger.Info("HTTP server starting", zap.String("listener", name), zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
			return
		}
		errCh <- nil
	}
	go serve("public", s.public, publicLn)
	go serve("admin", s.admin, adminLn)

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down gracefully")
	case serveErr = <-errCh:
		s.logger.Error("listener stopped unexpectedly", zap.Error(serveErr))
	}

	s.onShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Public first so in-flight /data requests finish while readiness still
	// reports draining on the admin listener.
	shutdownErr := s.public.Shutdown(shutdownCtx)
	if err := s.admin.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	if shutdownErr != nil {
		s.logger.Error("graceful shutdown failed", zap.Error(shutdownErr))
	}

	return errors.Join(serveErr, shutdownErr)
}
