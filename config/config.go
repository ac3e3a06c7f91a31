/*
Package config loads server settings from the environment and CLI flags.

PRECEDENCE (highest first):
  1. Command-line flags that were explicitly set (--port, --db, ...)
  2. HR_* environment variables
  3. Values from a .env file in the working directory (if present)
  4. Built-in defaults

VARIABLES:
  HR_PORT                HTTP port                       (default 8080)
  HR_DB                  SQLite path, ":memory:" allowed (default hr.db)
  HR_ENV                 development | production        (default development)
  HR_LOG_LEVEL           debug | info | warn | error     (default info)
  HR_RATE_LIMIT_PER_MIN  per-IP requests/min, 0 = off    (default 120)
  HR_CORS_ORIGINS        comma-separated origins         (default http://localhost:5173)
  HR_AUTO_PLAN_DAYS      WFH days/employee for automatic
                         weekly planning, 0 = off        (default 0)
  HR_AUTO_PLAN_INTERVAL  how often to check next week    (default 1h)

SEE ALSO:
  - cmd/server/main.go: registers the flags and calls Load
  - logging/logger.go: consumes Env and LogLevel
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HR"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the resolved server settings.
type Config struct {
	Port            int
	DBPath          string
	Env             string
	LogLevel        string
	RateLimitPerMin int
	CORSOrigins     []string

	AutoPlanDays     int
	AutoPlanInterval time.Duration
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether Env is "production".
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// flag name -> viper key
var flagKeys = map[string]string{
	"port":      "port",
	"db":        "db",
	"env":       "env",
	"log-level": "log_level",
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("port", 8080, "HTTP server port")
	fs.String("db", "hr.db", `SQLite database path (":memory:" for in-memory)`)
	fs.String("env", EnvDevelopment, "runtime environment: development or production")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("db", "hr.db")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_per_min", 120)
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("auto_plan_days", 0)
	v.SetDefault("auto_plan_interval", time.Hour)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		Port:            v.GetInt("port"),
		DBPath:          strings.TrimSpace(v.GetString("db")),
		Env:             strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		RateLimitPerMin: v.GetInt("rate_limit_per_min"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),

		AutoPlanDays:     v.GetInt("auto_plan_days"),
		AutoPlanInterval: v.GetDuration("auto_plan_interval"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("invalid env %q: must be %s or %s", c.Env, EnvDevelopment, EnvProduction)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("invalid rate limit %d: must not be negative", c.RateLimitPerMin)
	}
	if c.AutoPlanDays < 0 || c.AutoPlanDays > 6 {
		return fmt.Errorf("invalid auto plan days %d: must be between 0 and 6", c.AutoPlanDays)
	}
	if c.AutoPlanDays > 0 && c.AutoPlanInterval <= 0 {
		return fmt.Errorf("invalid auto plan interval %s: must be positive", c.AutoPlanInterval)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
