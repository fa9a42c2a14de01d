package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mw "github.com/tphakala/simple-notes/internal/api/middleware"
	v1 "github.com/tphakala/simple-notes/internal/api/v1"
	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/datastore"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
	"github.com/tphakala/simple-notes/internal/observability"
	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

// Health status values reported for the database.
const (
	dbConnected    = "connected"
	dbDisconnected = "disconnected"
	healthTimeout  = 2 * time.Second
)

// Server is the HTTP server for the notes service.
// It manages the Echo instance, middleware and all routes.
type Server struct {
	echo   *echo.Echo
	config *Config
	logger logger.Logger

	dataStore     datastore.Interface
	metrics       *observability.Metrics
	apiController *v1.Controller
	spaHandler    *SPAHandler

	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the module logger for the server.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithDataStore sets the note store. It is required.
func WithDataStore(ds datastore.Interface) ServerOption {
	return func(s *Server) {
		s.dataStore = ds
	}
}

// WithMetrics sets the observability metrics for the server.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	s := &Server{
		config:    config,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dataStore == nil {
		return nil, fmt.Errorf("a datastore is required")
	}
	if s.logger == nil {
		s.logger = GetLogger()
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Logger = logger.NewEchoLoggerAdapter(s.logger)
	s.echo.HTTPErrorHandler = s.errorHandler

	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	s.logger.Info("HTTP server initialized",
		logger.String("address", config.Address()),
		logger.String("environment", config.Environment),
		logger.Bool("metrics", config.MetricsPath != ""),
		logger.Bool("rate_limit", config.RateLimitEnabled))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	s.echo.Pre(echomw.RemoveTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool { return c.Request().URL.Path == "/ui/" },
	}))

	// Recovery middleware - should be first
	s.echo.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("panic recovered",
				logger.String("uri", c.Request().RequestURI),
				logger.Error(err),
				logger.String("stack", string(stack)))
			return err
		},
	}))

	// Request ids double as log trace ids
	s.echo.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), id)))
		},
	}))

	s.echo.Use(mw.NewRequestLogger(logger.NewSlogHandlerLogger(s.logger.Module("http"))))

	httpMetrics := s.httpMetrics()
	if httpMetrics != nil {
		s.echo.Use(mw.NewMetrics(httpMetrics))
	}

	securityConfig := mw.DefaultSecurityConfig()
	securityConfig.AllowedOrigins = s.config.AllowedOrigins
	securityConfig.AllowCredentials = s.config.AllowCredentials

	s.echo.Use(mw.NewCORS(securityConfig))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))

	if s.config.RateLimitEnabled {
		s.echo.Use(mw.NewRateLimiter(mw.RateLimitConfig{
			Rate:      s.config.RateLimit,
			Burst:     s.config.RateLimitBurst,
			ExpiresIn: s.config.RateLimitExpiry,
			Skipper:   mw.SkipHealthChecks,
			Metrics:   httpMetrics,
		}, notes.MsgTooManyRequests))
	}

	s.echo.Use(mw.NewSecureHeaders(securityConfig))
}

func (s *Server) httpMetrics() *metrics.HTTPMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.HTTP
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/api/health", s.healthCheck)
	s.echo.GET("/api", s.welcome)

	if s.config.MetricsPath != "" && s.metrics != nil {
		s.echo.GET(s.config.MetricsPath, echo.WrapHandler(s.metrics.Handler()))
	}

	controllerOpts := []v1.Option{v1.WithLogger(s.logger.Module("notes"))}
	if m := s.httpMetrics(); m != nil {
		controllerOpts = append(controllerOpts, v1.WithMetrics(m))
	}
	s.apiController = v1.New(s.dataStore, controllerOpts...)

	// /notes serves clients configured without the /api prefix.
	s.apiController.RegisterRoutes(s.echo.Group("/api/notes"))
	s.apiController.RegisterRoutes(s.echo.Group("/notes"))

	s.spaHandler = NewSPAHandler(nil)
	s.echo.GET("/", s.spaHandler.ServeApp)
	s.echo.GET("/ui", s.spaHandler.ServeApp)
	s.echo.GET("/ui/*", s.spaHandler.ServeApp)
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Environment string  `json:"environment"`
	Version     string  `json:"version"`
	Uptime      float64 `json:"uptime"`
	Database    string  `json:"database"`
}

// healthCheck reports liveness and store connectivity. It always answers
// 200 so the process is not restarted for a database outage.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	status, database := "healthy", dbConnected
	if err := s.dataStore.Ping(ctx); err != nil {
		status, database = "degraded", dbDisconnected
		s.logger.Warn("health check: store unreachable", logger.Error(err))
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Success:     true,
		Message:     "Server is running!",
		Status:      status,
		Timestamp:   v1.Timestamp(),
		Environment: s.config.Environment,
		Version:     s.config.Version,
		Uptime:      time.Since(s.startTime).Seconds(),
		Database:    database,
	})
}

// welcome describes the API.
func (s *Server) welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Welcome to Simple Notes API",
		"version":     s.config.Version,
		"environment": s.config.Environment,
		"endpoints": map[string]string{
			"health": "/api/health",
			"notes":  "/api/notes",
		},
	})
}

// errorHandler renders every framework error in the response envelope.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := notes.MsgInternalError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch code {
		case http.StatusNotFound:
			message = notes.MsgRouteNotFound
		case http.StatusMethodNotAllowed:
			message = "Method not allowed"
		case http.StatusRequestEntityTooLarge:
			message = "Request body too large"
		case http.StatusTooManyRequests:
			message = notes.MsgTooManyRequests
		default:
			if code < http.StatusInternalServerError {
				message = fmt.Sprint(he.Message)
			}
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.WithContext(c.Request().Context()).Error("request failed",
			logger.String("method", c.Request().Method),
			logger.String("uri", c.Request().RequestURI),
			logger.Error(err))
	}

	if err := v1.Fail(c, code, message); err != nil {
		s.logger.Error("failed to write error response", logger.Error(err))
	}
}

// Start serves HTTP requests and blocks until the server is shut down. A
// normal shutdown returns nil.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.logger.Info("Starting HTTP server", logger.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server within the configured timeout. The
// datastore is owned by the caller and is not closed here.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("Error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("Server shutdown complete")
	return nil
}

// Echo returns the underlying Echo instance.
// This is useful for testing or advanced configuration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Config returns the effective server configuration.
func (s *Server) Config() *Config {
	return s.config
}
