package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"donor-relay/pkg/api"
	"donor-relay/pkg/config"
	"donor-relay/pkg/metrics"
	"donor-relay/pkg/middleware"
	"donor-relay/pkg/static"
)

// Server runs the website listener and, when configured, a separate admin
// listener for metrics and health.
type Server struct {
	httpServer  *http.Server
	adminServer *http.Server
}

// NewRouter builds the main router: the relay routes, with every other
// request falling through to the static files in files.
func NewRouter(handlers *api.Handlers, files afero.Fs, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	// API paths match exactly; "/api/fetch-requests/" is a file lookup, not a redirect.
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if m != nil {
		router.Use(m.Middleware())
	}
	router.Use(middleware.CORS())

	handlers.RegisterRoutes(router)
	router.NoRoute(static.Handler(files))

	return router
}

// NewAdminRouter exposes Prometheus metrics and a health check.
func NewAdminRouter(handlers *api.Handlers, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/health", handlers.HealthCheck)
	return router
}

func NewServer(cfg *config.Config, handlers *api.Handlers, files afero.Fs, m *metrics.Metrics) *Server {
	srv := &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: NewRouter(handlers, files, m),
		},
	}

	if cfg.MetricsAddr != "" && m != nil {
		srv.adminServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: NewAdminRouter(handlers, m),
		}
	}

	return srv
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	if s.adminServer != nil {
		go func() {
			slog.Info("Starting admin server", "addr", s.adminServer.Addr)
			if err := s.adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Admin server failed", "error", err)
			}
		}()
	}

	slog.Info("Starting server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown admin server: %w", err))
		}
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
	}
	return errors.Join(errs...)
}
