package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

// RateLimitConfig configures the per-client limiter.
type RateLimitConfig struct {
	Rate      float64       // sustained requests per second
	Burst     int           // bucket size
	ExpiresIn time.Duration // idle visitor eviction
	Skipper   middleware.Skipper
	Metrics   *metrics.HTTPMetrics
}

// NewRateLimiter limits requests per client IP with a token bucket. Denied
// requests fail with 429, which the server's error handler renders.
func NewRateLimiter(config RateLimitConfig, deniedMessage string) echo.MiddlewareFunc {
	skipper := config.Skipper
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: skipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(config.Rate),
				Burst:     config.Burst,
				ExpiresIn: config.ExpiresIn,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client").SetInternal(err)
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			if config.Metrics != nil {
				config.Metrics.RecordRateLimited()
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, deniedMessage).SetInternal(err)
		},
	})
}
