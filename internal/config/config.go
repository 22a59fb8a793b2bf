// Package config loads service configuration from a TOML file, the
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Log     LogConfig     `koanf:"log"`
	Search  SearchConfig  `koanf:"search"`
	Media   MediaConfig   `koanf:"media"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	StaticDir      string        `koanf:"static_dir"` // Front-end build dir, empty disables
	AllowedOrigins []string      `koanf:"allowed_origins"`
}

// StorageConfig selects the catalog source. CatalogFile wins over DBPath.
type StorageConfig struct {
	DBPath      string `koanf:"db_path"`
	CatalogFile string `koanf:"catalog_file"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// SearchConfig holds search behaviour.
type SearchConfig struct {
	LoadingDelay time.Duration `koanf:"loading_delay"`
	RateLimit    float64       `koanf:"rate_limit"` // API requests per second per client, 0 disables
	Burst        int           `koanf:"burst"`
}

// MediaConfig holds preview playback configuration.
type MediaConfig struct {
	MPVSocket string `koanf:"mpv_socket"` // mpv --input-ipc-server path, empty disables
}

// Overrides are values set on the command line. Empty fields are ignored.
type Overrides struct {
	Port        string
	DBPath      string
	CatalogFile string
	StaticDir   string
	LogLevel    string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Storage: StorageConfig{
			DBPath: "./gamecatalog.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Search: SearchConfig{
			LoadingDelay: 300 * time.Millisecond,
			RateLimit:    20,
			Burst:        40,
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// ./config.toml is read when present.
func Load(path string, o Overrides) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = "config.toml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.apply(o)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.CatalogFile = expandPath(cfg.Storage.CatalogFile)
	cfg.Server.StaticDir = expandPath(cfg.Server.StaticDir)
	cfg.Media.MPVSocket = expandPath(cfg.Media.MPVSocket)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.StaticDir = getEnv("STATIC_DIR", c.Server.StaticDir)
	c.Storage.DBPath = getEnv("DB_PATH", c.Storage.DBPath)
	c.Storage.CatalogFile = getEnv("CATALOG_FILE", c.Storage.CatalogFile)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Media.MPVSocket = getEnv("MPV_SOCKET", c.Media.MPVSocket)
	if v := os.Getenv("SEARCH_LOADING_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SEARCH_LOADING_DELAY: %w", err)
		}
		c.Search.LoadingDelay = d
	}
	return nil
}

func (c *Config) apply(o Overrides) {
	if o.Port != "" {
		c.Server.Port = o.Port
	}
	if o.DBPath != "" {
		c.Storage.DBPath = o.DBPath
	}
	if o.CatalogFile != "" {
		c.Storage.CatalogFile = o.CatalogFile
	}
	if o.StaticDir != "" {
		c.Server.StaticDir = o.StaticDir
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Log.Format)
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Server.Port)
	}
	if c.Storage.DBPath == "" && c.Storage.CatalogFile == "" {
		return errors.New("one of storage.db_path or storage.catalog_file is required")
	}
	if c.Search.LoadingDelay < 0 {
		return errors.New("search.loading_delay cannot be negative")
	}
	if c.Search.RateLimit < 0 {
		return errors.New("search.rate_limit cannot be negative")
	}
	if c.Search.RateLimit > 0 && c.Search.Burst < 1 {
		return errors.New("search.burst must be at least 1 when rate limiting")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
