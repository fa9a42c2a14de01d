// Package middleware provides HTTP middleware components for the notes server.
package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRequestLogger creates a request logging middleware using Echo's
// RequestLoggerWithConfig. Health probes are not logged.
func NewRequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return NewRequestLoggerWithSkipper(logger, SkipHealthChecks)
}

// SkipHealthChecks skips the health endpoints, which load balancers poll.
func SkipHealthChecks(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/health" || path == "/api/health" || strings.HasPrefix(path, "/metrics")
}

// NewRequestLoggerWithSkipper creates a request logging middleware with a custom skipper.
func NewRequestLoggerWithSkipper(logger *slog.Logger, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:         skipper,
		LogStatus:       true,
		LogURI:          true,
		LogMethod:       true,
		LogLatency:      true,
		LogRemoteIP:     true,
		LogError:        true,
		LogRequestID:    true,
		LogUserAgent:    true,
		LogResponseSize: true,
		HandleError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if logger == nil {
				return nil
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
				slog.Int64("bytes", v.ResponseSize),
			}
			if v.RequestID != "" {
				attrs = append(attrs, slog.String("request_id", v.RequestID))
			}
			if v.UserAgent != "" {
				attrs = append(attrs, slog.String("user_agent", v.UserAgent))
			}

			level := slog.LevelInfo
			switch {
			case v.Status >= 500:
				level = slog.LevelError
			case v.Status >= 400:
				level = slog.LevelWarn
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
