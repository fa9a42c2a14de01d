package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// HSTSMaxAge is one year in seconds.
	HSTSMaxAge = 31536000

	// corsMaxAge lets browsers cache preflight answers for ten minutes.
	corsMaxAge = 600

	// appCSP allows the inline script and styles of the embedded web client.
	appCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'"
)

// noteMethods are the methods the notes API answers to.
var noteMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// SecurityConfig holds configuration for the CORS and header middleware.
type SecurityConfig struct {
	AllowedOrigins   []string // "*" allows any origin
	AllowCredentials bool

	HSTSMaxAge            int
	HSTSExcludeSubdomains bool

	ContentSecurityPolicy string
}

// DefaultSecurityConfig returns the configuration used when nothing is set.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedOrigins:        []string{"*"},
		AllowCredentials:      true,
		HSTSMaxAge:            HSTSMaxAge,
		ContentSecurityPolicy: appCSP,
	}
}

// NewCORS answers preflight requests and sets CORS headers on responses.
func NewCORS(config SecurityConfig) echo.MiddlewareFunc {
	cfg := middleware.CORSConfig{
		AllowOrigins: config.AllowedOrigins,
		AllowMethods: noteMethods,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestID,
			"X-Requested-With",
		},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: config.AllowCredentials,
		MaxAge:           corsMaxAge,
	}

	// Browsers reject a literal "*" on credentialed requests, so any origin
	// is echoed back instead.
	if config.AllowCredentials && slices.Contains(config.AllowedOrigins, "*") {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) (bool, error) { return true, nil }
	}

	return okPreflight(middleware.CORSWithConfig(cfg))
}

// okPreflight answers OPTIONS requests with 200 instead of echo's 204 so
// browsers and legacy clients see the same status for every notes path.
func okPreflight(cors echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := cors(next)
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodOptions {
				return h(c)
			}

			res := c.Response()
			res.Writer = preflightWriter{ResponseWriter: res.Writer}
			err := h(c)
			if res.Status == http.StatusNoContent {
				res.Status = http.StatusOK
			}
			return err
		}
	}
}

// preflightWriter rewrites an empty 204 to an empty 200.
type preflightWriter struct {
	http.ResponseWriter
}

func (w preflightWriter) WriteHeader(code int) {
	if code == http.StatusNoContent {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

// NewSecureHeaders sets nosniff, frame, XSS, HSTS and CSP headers.
func NewSecureHeaders(config SecurityConfig) echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            config.HSTSMaxAge,
		HSTSExcludeSubdomains: config.HSTSExcludeSubdomains,
		ContentSecurityPolicy: config.ContentSecurityPolicy,
	})
}

// NewBodyLimit rejects request bodies larger than limit, e.g. "10M", with 413.
func NewBodyLimit(limit string) echo.MiddlewareFunc {
	return middleware.BodyLimit(limit)
}
