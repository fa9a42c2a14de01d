package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

// unmatchedRoute labels requests that matched no route, keeping the path
// label's cardinality bounded.
const unmatchedRoute = "unmatched"

// NewMetrics records request count, latency, response size and in-flight
// requests. The path label is the route pattern, not the raw URL.
func NewMetrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			m.RequestStarted()
			defer m.RequestFinished()

			start := time.Now()
			err := next(c)
			if err != nil {
				// Run the error handler now so the recorded status is final. The
				// error still goes up the chain for the access log; the handler
				// ignores an already committed response.
				c.Error(err)
			}

			method := c.Request().Method
			path := c.Path()
			if path == "" || path == "/*" {
				path = unmatchedRoute
			}
			status := c.Response().Status

			m.RecordHTTPRequest(method, path, status, time.Since(start).Seconds())
			m.RecordHTTPResponseSize(method, path, c.Response().Size)
			if status >= http.StatusBadRequest {
				m.RecordHTTPRequestError(method, path, errorType(status))
			}
			return err
		}
	}
}

func errorType(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusNotFound:
		return "not-found"
	case status == http.StatusTooManyRequests:
		return "rate-limit"
	case status >= http.StatusInternalServerError:
		return "server"
	default:
		return "client"
	}
}
