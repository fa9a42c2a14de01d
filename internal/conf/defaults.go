// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Store backends
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendBolt   = "bolt"
)

// DefaultMongoURI is the connection string used when none is configured.
const DefaultMongoURI = "mongodb://localhost:27017/notesapp"

// setDefaultConfig registers default values for every configuration key.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("main.name", "Simple Notes")
	v.SetDefault("main.environment", EnvDevelopment)

	v.SetDefault("webserver.host", "")
	v.SetDefault("webserver.port", 5000)
	v.SetDefault("webserver.allowedorigins", []string{"*"})
	v.SetDefault("webserver.allowcredentials", true)
	v.SetDefault("webserver.bodylimit", "10M")
	v.SetDefault("webserver.readtimeout", 30*time.Second)
	v.SetDefault("webserver.writetimeout", 30*time.Second)
	v.SetDefault("webserver.idletimeout", 120*time.Second)
	v.SetDefault("webserver.shutdowntimeout", 10*time.Second)
	v.SetDefault("webserver.debug", false)

	v.SetDefault("store.backend", BackendMongo)
	v.SetDefault("store.uri", DefaultMongoURI)
	v.SetDefault("store.database", "")
	v.SetDefault("store.collection", "notes")
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("store.maxpoolsize", 10)
	v.SetDefault("store.serverselectiontimeout", 5*time.Second)
	v.SetDefault("store.sockettimeout", 45*time.Second)
	v.SetDefault("store.sqlite.path", "notes.db")
	v.SetDefault("store.mysql.host", "localhost")
	v.SetDefault("store.mysql.port", 3306)
	v.SetDefault("store.mysql.username", "notes")
	v.SetDefault("store.mysql.password", "")
	v.SetDefault("store.mysql.database", "notesapp")
	v.SetDefault("store.bolt.path", "notes.bolt")

	v.SetDefault("logging.default_level", "info")
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", true)
	v.SetDefault("logging.console.level", "info")
	v.SetDefault("logging.file_output.enabled", false)
	v.SetDefault("logging.file_output.path", "logs/simple-notes.log")
	v.SetDefault("logging.file_output.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.rate", 10.0)
	v.SetDefault("ratelimit.burst", 30)
	v.SetDefault("ratelimit.expiresin", 3*time.Minute)

	v.SetDefault("client.serverurl", "http://localhost:5000/api")
	v.SetDefault("client.timeout", 10*time.Second)
}

// DefaultSettings returns the settings produced by defaults alone.
func DefaultSettings() (*Settings, error) {
	v := viper.New()
	setDefaultConfig(v)

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
