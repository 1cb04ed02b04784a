package config

import (
	"fmt"
	"io"
	"time"
	_ "time/tzdata" // Europe/Istanbul must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v11"
	"github.com/pfrederiksen/kandilli/internal/logger"
	"github.com/pfrederiksen/kandilli/internal/scraper"
)

// Config holds the settings for the CLI and HTTP API, loaded from environment
// variables. Flags override these values.
type Config struct {
	URL       string `env:"KANDILLI_URL"`
	Timezone  string `env:"KANDILLI_TIMEZONE" envDefault:"Europe/Istanbul"`
	UserAgent string `env:"KANDILLI_USER_AGENT"`
	HTTPAddr  string `env:"KANDILLI_HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"KANDILLI_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"KANDILLI_LOG_FORMAT" envDefault:"json"`
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.URL == "" {
		cfg.URL = scraper.BulletinURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("KANDILLI_LOG_LEVEL: %w", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("KANDILLI_LOG_FORMAT: %w", err)
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("KANDILLI_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Logger builds a logger from the configured level and format.
func (c *Config) Logger(w io.Writer) (*logger.Logger, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.NewWithFormat(level, w, format), nil
}
