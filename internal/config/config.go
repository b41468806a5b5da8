package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cesargomez89/leaktracker/internal/constants"
)

//go:embed config.example.toml
var exampleConf []byte

// Config holds all application configuration
type Config struct {
	Port          string
	DBPath        string
	CacheBackend  string
	CachePath     string
	CacheTTL      time.Duration
	HTTPTimeout   time.Duration
	FetchRate     float64
	RefreshEvery  time.Duration
	RefreshJobs   int
	SheetsBaseURL string
	ConfigFile    string
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
	Aliases       []EraAlias

	loadErrors []string
}

// EraAlias folds every era whose name contains Match into Canonical.
type EraAlias struct {
	Match     string `toml:"match"`
	Canonical string `toml:"canonical"`
}

// File is the optional TOML configuration. Env vars take precedence over it.
type File struct {
	Server  ServerFile `toml:"server"`
	Cache   CacheFile  `toml:"cache"`
	Fetch   FetchFile  `toml:"fetch"`
	Aliases []EraAlias `toml:"aliases"`
}

type ServerFile struct {
	Port        string   `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type CacheFile struct {
	Backend      string `toml:"backend"`
	Path         string `toml:"path"`
	TTL          string `toml:"ttl"`
	RefreshEvery string `toml:"refresh_every"`
	RefreshJobs  int    `toml:"refresh_jobs"`
}

type FetchFile struct {
	Timeout string  `toml:"timeout"`
	Rate    float64 `toml:"rate"`
	BaseURL string  `toml:"base_url"`
}

// DefaultAliases is the alias list used when no file overrides it.
func DefaultAliases() []EraAlias {
	return []EraAlias{{Match: "donda 2", Canonical: "Donda 2"}}
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return LoadFrom(getEnv("CONFIG_FILE", ""))
}

// LoadFrom is Load with an explicit TOML file path; empty means no file.
func LoadFrom(path string) *Config {
	cfg := &Config{
		Port:          constants.DefaultPort,
		DBPath:        constants.DefaultDBPath,
		CacheBackend:  constants.DefaultCacheBackend,
		CachePath:     constants.DefaultCachePath,
		CacheTTL:      constants.DefaultCacheTTL,
		HTTPTimeout:   constants.DefaultHTTPTimeout,
		FetchRate:     constants.DefaultFetchRate,
		RefreshJobs:   constants.DefaultRefreshJobs,
		SheetsBaseURL: constants.DefaultSheetsBaseURL,
		LogLevel:      "info",
		LogFormat:     "text",
		CORSOrigins:   []string{"*"},
		Aliases:       DefaultAliases(),
	}

	cfg.ConfigFile = path
	if cfg.ConfigFile != "" {
		f, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			cfg.loadErrors = append(cfg.loadErrors, err.Error())
		} else {
			cfg.apply(f)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.CacheBackend = getEnv("CACHE_BACKEND", cfg.CacheBackend)
	cfg.CachePath = getEnv("CACHE_PATH", cfg.CachePath)
	cfg.CacheTTL = cfg.getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.HTTPTimeout = cfg.getEnvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.FetchRate = cfg.getEnvFloat("FETCH_RATE", cfg.FetchRate)
	cfg.RefreshEvery = cfg.getEnvDuration("REFRESH_EVERY", cfg.RefreshEvery)
	cfg.RefreshJobs = int(cfg.getEnvFloat("REFRESH_JOBS", float64(cfg.RefreshJobs)))
	cfg.SheetsBaseURL = getEnv("SHEETS_BASE_URL", cfg.SheetsBaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	return cfg
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Example returns the embedded example configuration file.
func Example() []byte {
	return exampleConf
}

// WriteExample writes the example configuration to path, refusing to overwrite.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) apply(f *File) {
	if f.Server.Port != "" {
		c.Port = f.Server.Port
	}
	if len(f.Server.CORSOrigins) > 0 {
		c.CORSOrigins = f.Server.CORSOrigins
	}
	if f.Cache.Backend != "" {
		c.CacheBackend = f.Cache.Backend
	}
	if f.Cache.Path != "" {
		c.CachePath = f.Cache.Path
	}
	if f.Cache.TTL != "" {
		if d, err := time.ParseDuration(f.Cache.TTL); err == nil {
			c.CacheTTL = d
		} else {
			c.loadErrors = append(c.loadErrors, fmt.Sprintf("cache.ttl is not a valid duration: %s", f.Cache.TTL))
		}
	}
	if f.Cache.RefreshEvery != "" {
		if d, err := time.ParseDuration(f.Cache.RefreshEvery); err == nil {
			c.RefreshEvery = d
		} else {
			c.loadErrors = append(c.loadErrors, fmt.Sprintf("cache.refresh_every is not a valid duration: %s", f.Cache.RefreshEvery))
		}
	}
	if f.Cache.RefreshJobs > 0 {
		c.RefreshJobs = f.Cache.RefreshJobs
	}
	if f.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(f.Fetch.Timeout); err == nil {
			c.HTTPTimeout = d
		} else {
			c.loadErrors = append(c.loadErrors, fmt.Sprintf("fetch.timeout is not a valid duration: %s", f.Fetch.Timeout))
		}
	}
	if f.Fetch.Rate > 0 {
		c.FetchRate = f.Fetch.Rate
	}
	if f.Fetch.BaseURL != "" {
		c.SheetsBaseURL = f.Fetch.BaseURL
	}
	if len(f.Aliases) > 0 {
		c.Aliases = f.Aliases
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	errors := append([]string(nil), c.loadErrors...)

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	validBackends := map[string]bool{
		constants.CacheBackendFile:   true,
		constants.CacheBackendSQLite: true,
		constants.CacheBackendBadger: true,
	}
	if !validBackends[c.CacheBackend] {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: file, sqlite, badger, got: %s", c.CacheBackend))
	}
	if c.CacheBackend != constants.CacheBackendSQLite && c.CachePath == "" {
		errors = append(errors, "CACHE_PATH cannot be empty")
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CACHE_TTL must be positive, got: %s", c.CacheTTL))
	}
	if c.RefreshEvery < 0 {
		errors = append(errors, fmt.Sprintf("REFRESH_EVERY cannot be negative, got: %s", c.RefreshEvery))
	}
	if c.RefreshJobs < 1 {
		errors = append(errors, fmt.Sprintf("REFRESH_JOBS must be at least 1, got: %d", c.RefreshJobs))
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTP_TIMEOUT must be positive, got: %s", c.HTTPTimeout))
	}
	if c.FetchRate <= 0 {
		errors = append(errors, fmt.Sprintf("FETCH_RATE must be positive, got: %v", c.FetchRate))
	}

	if c.SheetsBaseURL == "" {
		errors = append(errors, "SHEETS_BASE_URL cannot be empty")
	} else if u, err := url.Parse(c.SheetsBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("SHEETS_BASE_URL is not a valid URL: %s", c.SheetsBaseURL))
	}

	for i, a := range c.Aliases {
		if strings.TrimSpace(a.Match) == "" || strings.TrimSpace(a.Canonical) == "" {
			errors = append(errors, fmt.Sprintf("aliases[%d] needs both match and canonical", i))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text":   true,
		"json":   true,
		"pretty": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, pretty, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s must be a duration like 60m, got: %s", key, raw))
		return fallback
	}
	return d
}

func (c *Config) getEnvFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s must be a number, got: %s", key, raw))
		return fallback
	}
	return f
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
