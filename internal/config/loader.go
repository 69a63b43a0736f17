package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables, applies defaults and
// validates the result. Every missing or malformed variable is reported in
// one error.
func Load() (*Config, error) {
	cfg := &Config{}

	var p problems
	populate(reflect.ValueOf(cfg).Elem(), &p)
	if err := p.err("config load"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// problems collects configuration errors so they can be fixed in one go.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err(prefix string) error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%s failed:\n  - %s", prefix, strings.Join(p, "\n  - "))
}

// populate fills every field tagged `env` from the environment, recursing
// into nested structs. Tags: env (variable), envAlt (fallback variable),
// default, required:"true".
func populate(v reflect.Value, p *problems) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct && field.Type != durationType {
			populate(fv, p)
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		raw, ok := getenv(name, field.Tag.Get("envAlt"))
		if !ok {
			if field.Tag.Get("required") == "true" {
				p.addf("required environment variable %s is not set", name)
				continue
			}
			raw = field.Tag.Get("default")
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			p.addf("%s=%q: %v", name, raw, err)
		}
	}
}

// getenv returns the first non-empty value of name or alt.
func getenv(name, alt string) (string, bool) {
	for _, k := range []string{name, alt} {
		if k == "" {
			continue
		}
		if v := os.Getenv(k); v != "" {
			return v, true
		}
	}
	return "", false
}

// assign parses raw into fv according to its type.
func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errors.New("invalid duration")
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return errors.New("invalid integer")
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("invalid boolean")
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", fv.Type().Elem().Kind())
		}
		// Comma separated; blanks dropped.
		var items []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Kind())
	}
	return nil
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	var p problems
	c.Database.check(&p)
	c.Server.check(&p)
	c.Import.check(&p)
	c.Events.check(&p)
	c.Security.check(&p)
	c.Logging.check(&p)
	return p.err("validation")
}

func (d *DatabaseConfig) check(p *problems) {
	if d.URL == "" {
		p.addf("DATABASE_URL is required")
	}
	if d.MaxConns <= 0 {
		p.addf("DB_MAX_CONNS must be positive")
	}
	if d.MaxConns < d.MinConns {
		p.addf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", d.MaxConns, d.MinConns)
	}
}

func (s *ServerConfig) check(p *problems) {
	if s.Port <= 0 || s.Port > 65535 {
		p.addf("SERVER_PORT (%d) must be 1-65535", s.Port)
	}
	if s.ShutdownTimeout <= 0 {
		p.addf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
}

func (i *ImportConfig) check(p *problems) {
	positive := []struct {
		name string
		ok   bool
	}{
		{"IMPORT_MAX_CONCURRENT", i.MaxConcurrent > 0},
		{"IMPORT_MAX_WAIT_TIME", i.MaxWaitTime > 0},
		{"IMPORT_TIMEOUT", i.Timeout > 0},
		{"IMPORT_MAX_FILE_SIZE", i.MaxFileSize > 0},
	}
	for _, v := range positive {
		if !v.ok {
			p.addf("%s must be positive", v.name)
		}
	}
}

func (e *EventsConfig) check(p *problems) {
	oneOf(p, "EVENTS_MODE", e.Mode, "deferred", "immediate")
	oneOf(p, "EVENTS_TRANSPORT", e.Transport, "log", "notify")
	if strings.EqualFold(e.Transport, "notify") && e.Channel == "" {
		p.addf("EVENTS_CHANNEL is required when EVENTS_TRANSPORT is notify")
	}
}

func (s *SecurityConfig) check(p *problems) {
	if s.RequireAPIKey && len(s.APIKeys) == 0 {
		p.addf("REQUIRE_API_KEY is true but API_KEYS is empty")
	}
}

func (l *LoggingConfig) check(p *problems) {
	oneOf(p, "LOG_LEVEL", l.Level, "debug", "info", "warn", "error")
	oneOf(p, "LOG_FORMAT", l.Format, "text", "json")
}

func oneOf(p *problems, name, value string, allowed ...string) {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return
		}
	}
	p.addf("%s (%q) must be one of: %s", name, value, strings.Join(allowed, ", "))
}

// String returns the config for logging with the database URL and API keys
// masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Addr: %q}, Database: {URL: [MASKED], MaxConns: %d}, "+
		"Import: {DataDir: %q, StopOnError: %v, MaxConcurrent: %d, Timeout: %s}, "+
		"Events: {Mode: %q, Transport: %q}, Security: {RequireAPIKey: %v, APIKeys: %d, TrustedProxies: %d}, "+
		"Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), c.Database.MaxConns,
		c.Import.DataDir, c.Import.StopOnError, c.Import.MaxConcurrent, c.Import.Timeout,
		c.Events.Mode, c.Events.Transport,
		c.Security.RequireAPIKey, len(c.Security.APIKeys), len(c.Security.TrustedProxies),
		c.Logging.Level, c.Logging.Format)
}
