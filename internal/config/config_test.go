package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
)

func TestLoad(t *testing.T) {
	// Test default values
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}

	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected DBPath to be %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}

	if cfg.CacheTTL != constants.DefaultCacheTTL {
		t.Errorf("Expected CacheTTL to be %v, got %v", constants.DefaultCacheTTL, cfg.CacheTTL)
	}

	if len(cfg.Aliases) != 1 || cfg.Aliases[0].Canonical != "Donda 2" {
		t.Errorf("Expected default alias list, got %+v", cfg.Aliases)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	// Set environment variables
	os.Setenv("PORT", "9090")
	os.Setenv("DB_PATH", "/tmp/test.db")
	os.Setenv("CACHE_BACKEND", "sqlite")
	os.Setenv("CACHE_TTL", "15m")
	os.Setenv("CORS_ORIGINS", "http://localhost:3000, https://tracker.example")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_PATH")
		os.Unsetenv("CACHE_BACKEND")
		os.Unsetenv("CACHE_TTL")
		os.Unsetenv("CORS_ORIGINS")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DBPath to be /tmp/test.db, got %s", cfg.DBPath)
	}

	if cfg.CacheBackend != "sqlite" {
		t.Errorf("Expected CacheBackend to be sqlite, got %s", cfg.CacheBackend)
	}

	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("Expected CacheTTL to be 15m, got %v", cfg.CacheTTL)
	}

	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://tracker.example" {
		t.Errorf("Expected two CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "an hour")

	cfg := Load()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error for bad CACHE_TTL")
	}
	if !strings.Contains(err.Error(), "CACHE_TTL") {
		t.Errorf("Expected error to mention CACHE_TTL, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = "7070"

[cache]
backend = "badger"
path = "/tmp/cache-dir"
ttl = "2h"

[[aliases]]
match = "donda 2"
canonical = "Donda 2"

[[aliases]]
match = "yandhi"
canonical = "Yandhi"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg := Load()

	if cfg.Port != "6060" {
		t.Errorf("Expected env PORT to override file, got %s", cfg.Port)
	}
	if cfg.CacheBackend != "badger" {
		t.Errorf("Expected CacheBackend badger, got %s", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 2*time.Hour {
		t.Errorf("Expected CacheTTL 2h, got %v", cfg.CacheTTL)
	}
	if len(cfg.Aliases) != 2 || cfg.Aliases[1].Canonical != "Yandhi" {
		t.Errorf("Expected aliases from file, got %+v", cfg.Aliases)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected file config to validate, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for missing config file")
	}
}

func TestExampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample failed: %v", err)
	}
	if err := WriteExample(path); err == nil {
		t.Error("Expected WriteExample to refuse overwriting")
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if f.Cache.Backend != constants.CacheBackendFile {
		t.Errorf("Expected example backend file, got %s", f.Cache.Backend)
	}
	if len(f.Aliases) == 0 {
		t.Error("Expected example to carry aliases")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:          "8080",
			DBPath:        "test.db",
			CacheBackend:  "file",
			CachePath:     "cache.json",
			CacheTTL:      time.Hour,
			HTTPTimeout:   10 * time.Second,
			FetchRate:     2,
			RefreshJobs:   2,
			SheetsBaseURL: "https://docs.google.com",
			LogLevel:      "info",
			LogFormat:     "text",
			Aliases:       DefaultAliases(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "invalid port - not a number", mutate: func(c *Config) { c.Port = "abc" }, wantErr: true},
		{name: "invalid port - out of range", mutate: func(c *Config) { c.Port = "99999" }, wantErr: true},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: true},
		{name: "unknown cache backend", mutate: func(c *Config) { c.CacheBackend = "redis" }, wantErr: true},
		{name: "empty cache path for file backend", mutate: func(c *Config) { c.CachePath = "" }, wantErr: true},
		{name: "sqlite backend without cache path", mutate: func(c *Config) { c.CacheBackend = "sqlite"; c.CachePath = "" }, wantErr: false},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }, wantErr: true},
		{name: "negative refresh interval", mutate: func(c *Config) { c.RefreshEvery = -time.Minute }, wantErr: true},
		{name: "no refresh jobs", mutate: func(c *Config) { c.RefreshJobs = 0 }, wantErr: true},
		{name: "zero fetch rate", mutate: func(c *Config) { c.FetchRate = 0 }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.SheetsBaseURL = "docs.google.com" }, wantErr: true},
		{name: "incomplete alias", mutate: func(c *Config) { c.Aliases = []EraAlias{{Match: "x"}} }, wantErr: true},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "invalid" }, wantErr: true},
		{name: "invalid log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "pretty log format", mutate: func(c *Config) { c.LogFormat = "pretty" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	conf := "[cache]\nbackend = \"badger\"\npath = \"cache-dir\"\nrefresh_every = \"30m\"\nrefresh_jobs = 4\n"
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := LoadFrom(path)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.ConfigFile != path {
		t.Errorf("Expected ConfigFile %s, got %s", path, cfg.ConfigFile)
	}
	if cfg.CacheBackend != "badger" || cfg.CachePath != "cache-dir" {
		t.Errorf("Expected badger cache at cache-dir, got %s at %s", cfg.CacheBackend, cfg.CachePath)
	}
	if cfg.RefreshEvery != 30*time.Minute || cfg.RefreshJobs != 4 {
		t.Errorf("Expected refresh every 30m with 4 jobs, got %s with %d", cfg.RefreshEvery, cfg.RefreshJobs)
	}
}

func TestGetEnv(t *testing.T) {
	// Test with existing env var
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	value := getEnv("TEST_VAR", "default")
	if value != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", value)
	}

	// Test with non-existing env var
	value = getEnv("NON_EXISTENT_VAR", "default")
	if value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}
