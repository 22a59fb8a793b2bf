package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.LoadingDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./gamecatalog.db", cfg.Storage.DBPath)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9090"
read_timeout = "3s"

[search]
loading_delay = "0s"
rate_limit = 5.0
burst = 10

[log]
level = "debug"
format = "console"

[storage]
catalog_file = "games.json"
`)

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	// untouched keys keep defaults
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, time.Duration(0), cfg.Search.LoadingDelay)
	assert.Equal(t, 5.0, cfg.Search.RateLimit)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "games.json", cfg.Storage.CatalogFile)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9090"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("DB_PATH", "/data/env.db")

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "/data/env.db", cfg.Storage.DBPath)

	cfg, err = Load(path, Overrides{Port: "6060"})
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.Server.Port)
}

func TestLoad_LoadingDelayFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SEARCH_LOADING_DELAY", "50ms")
	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.Search.LoadingDelay)

	t.Setenv("SEARCH_LOADING_DELAY", "soon")
	_, err = Load("", Overrides{})
	assert.ErrorContains(t, err, "SEARCH_LOADING_DELAY")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), Overrides{})
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "loud"
`)
	_, err := Load(path, Overrides{})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"upper case level", func(c *Config) { c.Log.Level = "DEBUG" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"bad port", func(c *Config) { c.Server.Port = "http" }, false},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }, false},
		{"no source", func(c *Config) { c.Storage.DBPath = "" }, false},
		{"file source only", func(c *Config) { c.Storage.DBPath = ""; c.Storage.CatalogFile = "g.json" }, true},
		{"negative delay", func(c *Config) { c.Search.LoadingDelay = -time.Second }, false},
		{"zero delay", func(c *Config) { c.Search.LoadingDelay = 0 }, true},
		{"negative rate", func(c *Config) { c.Search.RateLimit = -1 }, false},
		{"rate without burst", func(c *Config) { c.Search.Burst = 0 }, false},
		{"rate limit off", func(c *Config) { c.Search.RateLimit = 0; c.Search.Burst = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	assert.Equal(t, filepath.Join(home, "games.db"), expandPath("~/games.db"))
	assert.Equal(t, "/abs/games.db", expandPath("/abs/games.db"))
	assert.Equal(t, "", expandPath(""))
}
