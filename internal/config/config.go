package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Defaults applied when neither the config file nor the environment set a value.
const (
	DefaultBackendURL      = "http://localhost:8001"
	DefaultLocale          = "ru-RU"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultReadRetries     = 1
	DefaultRefreshInterval = 5 * time.Second
)

// Config represents the global ~/.sentinel/config.toml.
//
// Every field can be overridden by a SENTINEL_* environment variable.
type Config struct {
	DefaultSession  string   `toml:"default_session" env:"SENTINEL_SESSION"`
	BackendURL      string   `toml:"backend_url" env:"SENTINEL_BACKEND_URL"`
	Locale          string   `toml:"locale" env:"SENTINEL_LOCALE"`
	Timezone        string   `toml:"timezone" env:"SENTINEL_TIMEZONE"`
	RequestTimeout  Duration `toml:"request_timeout" env:"SENTINEL_REQUEST_TIMEOUT"`
	ReadRetries     int      `toml:"read_retries" env:"SENTINEL_READ_RETRIES"`
	RefreshInterval Duration `toml:"refresh_interval" env:"SENTINEL_REFRESH_INTERVAL"`
}

// Duration is a time.Duration that round-trips through toml and env as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		BackendURL:      DefaultBackendURL,
		Locale:          DefaultLocale,
		RequestTimeout:  Duration{DefaultRequestTimeout},
		ReadRetries:     DefaultReadRetries,
		RefreshInterval: Duration{DefaultRefreshInterval},
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve builds the effective configuration: defaults, then the file at path
// (a missing file is fine), then .env, then SENTINEL_* variables.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// A missing .env is the common case outside development.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.RequestTimeout.Duration <= 0 {
		c.RequestTimeout.Duration = DefaultRequestTimeout
	}
	if c.ReadRetries < 0 {
		c.ReadRetries = 0
	}
	if c.RefreshInterval.Duration <= 0 {
		c.RefreshInterval.Duration = DefaultRefreshInterval
	}
}

// Location returns the display time zone. Empty or unknown names fall back to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
