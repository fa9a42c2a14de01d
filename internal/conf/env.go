// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for automatic environment overrides, so
// NOTES_WEBSERVER_DEBUG maps to webserver.debug.
const EnvPrefix = "NOTES"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVars   []string           // Environment variable names, first set one wins
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns the well-known environment variables
func getEnvBindings() []envBinding {
	return []envBinding{
		{"webserver.port", []string{"PORT"}, validateEnvPort},
		{"webserver.allowedorigins", []string{"CORS_ORIGIN"}, validateEnvOrigins},
		{"webserver.bodylimit", []string{"BODY_LIMIT"}, validateEnvBodyLimit},
		{"main.environment", []string{"APP_ENV", "NODE_ENV"}, nil},
		{"store.backend", []string{"STORE_BACKEND"}, validateEnvBackend},
		{"store.uri", []string{"MONGODB_URI"}, validateEnvMongoURI},
		{"sentry.dsn", []string{"SENTRY_DSN"}, nil},
		{"logging.default_level", []string{"LOG_LEVEL"}, validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		args := append([]string{binding.ConfigKey}, binding.EnvVars...)
		if err := v.BindEnv(args...); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.ConfigKey, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		for _, envVar := range binding.EnvVars {
			envValue := os.Getenv(envVar)
			if envValue == "" {
				continue
			}
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", envVar, envValue, err))
			}
			break
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return bindEnvVars(v)
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func validateEnvOrigins(value string) error {
	for origin := range strings.SplitSeq(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("origin %q must be a scheme://host URL or *", origin)
		}
	}
	return nil
}

func validateEnvBodyLimit(value string) error {
	if _, err := bytes.Parse(value); err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}
	return nil
}

func validateEnvBackend(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BackendMongo, BackendSQLite, BackendMySQL, BackendBolt:
		return nil
	default:
		return fmt.Errorf("backend must be one of mongo, sqlite, mysql, bolt")
	}
}

func validateEnvMongoURI(value string) error {
	if !strings.HasPrefix(value, "mongodb://") && !strings.HasPrefix(value, "mongodb+srv://") {
		return fmt.Errorf("connection string must start with mongodb:// or mongodb+srv://")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log level must be one of trace, debug, info, warn, error")
	}
}
