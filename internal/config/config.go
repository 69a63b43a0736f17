// Package config loads the merchant importer's configuration from
// environment variables, applying defaults and validating everything on
// startup so misconfiguration fails fast.
//
// The layout of the import files themselves (which import types run, in
// which order, from which file) lives in a separate YAML file; see
// LoadImportActions.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Events   EventsConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings for `merchant-import serve`.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout covers the whole import run of a request (default: 10m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"10m"`

	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig controls import runs.
type ImportConfig struct {
	// DataDir is where import files are looked up by name (default: data/import)
	DataDir string `env:"IMPORT_DATA_DIR" default:"data/import"`

	// ActionsFile lists the import actions for `import-all` (default: data/import/config.yml)
	ActionsFile string `env:"IMPORT_ACTIONS_FILE" default:"data/import/config.yml"`

	// StopOnError aborts a run at its first failed row (default: false)
	StopOnError bool `env:"IMPORT_STOP_ON_ERROR" default:"false"`

	// MaxConcurrent is the maximum number of parallel runs (default: 2)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`

	// MaxFileSize bounds uploaded files in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`
}

// EventsConfig selects how publish events are delivered.
type EventsConfig struct {
	// Mode is "deferred" (flush once after commit) or "immediate" (default: deferred)
	Mode string `env:"EVENTS_MODE" default:"deferred"`

	// Transport is "log" or "notify" (PostgreSQL NOTIFY) (default: log)
	Transport string `env:"EVENTS_TRANSPORT" default:"log"`

	// Channel is the NOTIFY channel (default: merchant_events)
	Channel string `env:"EVENTS_CHANNEL" default:"merchant_events"`
}

// SecurityConfig holds HTTP API settings.
type SecurityConfig struct {
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`

	// TrustedProxies are CIDRs whose X-Real-IP / X-Forwarded-For headers are honoured
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
