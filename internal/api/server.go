package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/slipstream/showguide/internal/api/handlers"
	apimw "github.com/slipstream/showguide/internal/api/middleware"
	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/health"
	"github.com/slipstream/showguide/internal/scheduler"
)

const apiPrefix = "/api/v1"

// Services are the components exposed over HTTP. Only Catalog is required.
type Services struct {
	Catalog   *catalog.Service
	Scheduler *scheduler.Scheduler
	Health    *health.Service
	FSChecker *health.FilesystemChecker
	Logs      LogsProvider
}

// Server handles HTTP requests for the showguide API.
type Server struct {
	echo   *echo.Echo
	logger zerolog.Logger
	cfg    *config.Config

	services Services
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, services Services, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		logger:   logger.With().Str("component", "api").Logger(),
		cfg:      cfg,
		services: services,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(apimw.SecurityHeaders(apiPrefix))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Debug()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("requestId", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	api := s.echo.Group(apiPrefix)

	api.GET("/status", s.getStatus)

	catalog.NewHandlers(s.services.Catalog).RegisterRoutes(api.Group("/series"))

	if s.services.Scheduler != nil {
		schedulerHandler := handlers.NewSchedulerHandler(s.services.Scheduler)
		g := api.Group("/scheduler/tasks")
		g.GET("", schedulerHandler.ListTasks)
		g.GET("/:id", schedulerHandler.GetTask)
		g.POST("/:id/run", schedulerHandler.RunTask)
	}

	if s.services.Health != nil && s.services.FSChecker != nil {
		health.NewHandlers(s.services.Health, s.services.FSChecker, s.services.Catalog.Dir()).
			RegisterRoutes(api.Group("/health"))
	}

	if s.services.Logs != nil {
		NewLogsHandlers(s.services.Logs).RegisterRoutes(api.Group("/logs"))
	}
}

// getStatus returns basic service information.
// GET /api/v1/status
func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"version": config.Version,
		"feedDir": s.services.Catalog.Dir(),
	})
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Server.Address()
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("address", addr).Msg("starting HTTP server")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
