// Package conf loads application settings from defaults, an optional YAML
// file and environment variables.
package conf

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/simple-notes/internal/logger"
)

// Version of the application; overridden at build time with -ldflags.
var Version = "1.0.0"

// MainSettings holds process-wide settings
type MainSettings struct {
	Name        string // application name shown by the welcome endpoint
	Environment string // development, production or test
}

// WebServerSettings contains settings for the HTTP server
type WebServerSettings struct {
	Host             string        // interface to bind, empty for all
	Port             int           // port to listen on
	AllowedOrigins   []string      // CORS origins, "*" allows any
	AllowCredentials bool          // CORS credentials flag
	BodyLimit        string        // maximum request body size, e.g. "10M"
	ReadTimeout      time.Duration // maximum duration for reading a request
	WriteTimeout     time.Duration // maximum duration for writing a response
	IdleTimeout      time.Duration // keep-alive idle timeout
	ShutdownTimeout  time.Duration // graceful shutdown deadline
	Debug            bool          // verbose request logging
}

// SQLiteSettings configures the sqlite backend
type SQLiteSettings struct {
	Path string // database file, ":memory:" for an in-memory database
}

// MySQLSettings configures the mysql backend
type MySQLSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// BoltSettings configures the embedded bbolt backend
type BoltSettings struct {
	Path string
}

// StoreSettings selects and configures the note store
type StoreSettings struct {
	Backend                string        // mongo, sqlite, mysql or bolt
	URI                    string        // mongodb connection string
	Database               string        // mongodb database, defaults to the one named in URI
	Collection             string        // mongodb collection
	Timeout                time.Duration // per-operation deadline
	MaxPoolSize            uint64        // mongodb connection pool size
	ServerSelectionTimeout time.Duration // mongodb server selection deadline
	SocketTimeout          time.Duration // mongodb socket read/write deadline
	SQLite                 SQLiteSettings
	MySQL                  MySQLSettings
	Bolt                   BoltSettings
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Enabled bool
	Path    string
}

// SentrySettings controls error telemetry
type SentrySettings struct {
	Enabled bool
	DSN     string
}

// RateLimitSettings configures the per-client request limiter
type RateLimitSettings struct {
	Enabled   bool
	Rate      float64       // sustained requests per second
	Burst     int           // bucket size
	ExpiresIn time.Duration // idle visitor eviction
}

// ClientSettings configures the notes CLI client
type ClientSettings struct {
	ServerURL string        // base URL of the API, e.g. http://localhost:5000/api
	Timeout   time.Duration // per-request timeout
}

// Settings contains all configuration options
type Settings struct {
	Main      MainSettings
	WebServer WebServerSettings
	Store     StoreSettings
	Logging   logger.LoggingConfig
	Metrics   MetricsSettings
	Sentry    SentrySettings
	RateLimit RateLimitSettings
	Client    ClientSettings
}

// IsProduction reports whether the app runs in production mode
func (s *Settings) IsProduction() bool {
	return s.Main.Environment == EnvProduction
}

// Address returns the listen address for the web server
func (w *WebServerSettings) Address() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads configuration into a new Settings using the global viper
// instance, which carries any flags bound by the command line. An empty
// configFile searches the default config paths.
func Load(configFile string) (*Settings, error) {
	settings, err := LoadFrom(viper.GetViper(), configFile)
	if err != nil {
		return nil, err
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()

	return settings, nil
}

// LoadFrom reads configuration with the given viper instance. When
// configFile is empty the default config paths are searched and a missing
// file is not an error.
func LoadFrom(v *viper.Viper, configFile string) (*Settings, error) {
	if err := initViper(v, configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper applies defaults, environment bindings and the config file.
func initViper(v *viper.Viper, configFile string) error {
	setDefaultConfig(v)

	if err := configureEnvironmentVariables(v); err != nil {
		return err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range GetDefaultConfigPaths() {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetSettings returns the settings stored by the last successful Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
