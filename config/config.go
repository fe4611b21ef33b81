package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix for every environment variable read by Load
const envPrefix = "WELFARE"

// Config holds the dashboard settings
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	ReportFilename  string        `envconfig:"REPORT_FILENAME" default:"student_welfare_report"`
	Redis           RedisConfig   `envconfig:"REDIS"`
}

// RedisConfig selects the Redis roster store. An empty Addr keeps the roster in memory.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from WELFARE_* environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode: %q", c.GinMode)
	}
	if c.ReportFilename == "" {
		return fmt.Errorf("report filename cannot be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
	}
	return nil
}
