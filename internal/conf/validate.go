// conf/validate.go

package conf

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/gommon/bytes"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct. Backend names are
// normalized to lower case as a side effect.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		validateMainSettings,
		validateWebServerSettings,
		validateStoreSettings,
		validateRateLimitSettings,
		validateSentrySettings,
		validateClientSettings,
	}

	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateMainSettings(settings *Settings) error {
	if strings.TrimSpace(settings.Main.Environment) == "" {
		return errors.New("main.environment must not be empty")
	}
	return nil
}

// validateWebServerSettings validates the WebServer-specific settings
func validateWebServerSettings(settings *Settings) error {
	ws := &settings.WebServer
	var errs []string

	if ws.Port < 1 || ws.Port > 65535 {
		errs = append(errs, fmt.Sprintf("webserver port must be between 1 and 65535, got %d", ws.Port))
	}

	if _, err := bytes.Parse(ws.BodyLimit); err != nil {
		errs = append(errs, fmt.Sprintf("webserver body limit %q is invalid: %v", ws.BodyLimit, err))
	}

	if len(ws.AllowedOrigins) == 0 {
		errs = append(errs, "webserver allowed origins must not be empty")
	}
	for i, origin := range ws.AllowedOrigins {
		ws.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if ws.ShutdownTimeout <= 0 {
		errs = append(errs, "webserver shutdown timeout must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// validateStoreSettings validates backend selection and its settings
func validateStoreSettings(settings *Settings) error {
	store := &settings.Store
	store.Backend = strings.ToLower(strings.TrimSpace(store.Backend))

	if store.Timeout <= 0 {
		return errors.New("store timeout must be positive")
	}

	switch store.Backend {
	case BackendMongo:
		if err := validateEnvMongoURI(store.URI); err != nil {
			return fmt.Errorf("store uri: %w", err)
		}
		if store.Collection == "" {
			return errors.New("store collection must not be empty")
		}
		if store.MaxPoolSize == 0 {
			return errors.New("store max pool size must be positive")
		}
	case BackendSQLite:
		if store.SQLite.Path == "" {
			return errors.New("sqlite path must not be empty")
		}
	case BackendMySQL:
		if store.MySQL.Host == "" || store.MySQL.Database == "" {
			return errors.New("mysql host and database are required")
		}
		if store.MySQL.Port < 1 || store.MySQL.Port > 65535 {
			return fmt.Errorf("mysql port must be between 1 and 65535, got %d", store.MySQL.Port)
		}
	case BackendBolt:
		if store.Bolt.Path == "" {
			return errors.New("bolt path must not be empty")
		}
	default:
		return fmt.Errorf("unknown store backend %q", store.Backend)
	}

	return nil
}

func validateRateLimitSettings(settings *Settings) error {
	rl := settings.RateLimit
	if !rl.Enabled {
		return nil
	}
	if rl.Rate <= 0 {
		return errors.New("rate limit rate must be positive")
	}
	if rl.Burst < 1 {
		return errors.New("rate limit burst must be at least 1")
	}
	return nil
}

func validateSentrySettings(settings *Settings) error {
	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		return errors.New("sentry dsn is required when sentry is enabled")
	}
	return nil
}

func validateClientSettings(settings *Settings) error {
	u, err := url.Parse(settings.Client.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("client server url %q must be an http(s) URL", settings.Client.ServerURL)
	}
	return nil
}
