// Package config provides centralized configuration for Daymark runtime values.
//
// Values resolve in three layers: compiled defaults, an optional YAML file,
// then DAYMARK_* environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for data and config directories.
const AppName = "daymark"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: 127.0.0.1:8080
	Addr string `yaml:"addr"`

	// ReadTimeout and WriteTimeout bound a single request.
	// Default: 15s
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// Path is the badger directory. Empty means the XDG data directory.
	Path string `yaml:"path"`

	// InMemory keeps all data in memory (tests, demos).
	InMemory bool `yaml:"in_memory"`
}

// CacheConfig holds day-state cache configuration.
type CacheConfig struct {
	// TTL is how long a materialized day stays cached.
	// Default: 5m
	TTL time.Duration `yaml:"ttl"`

	// NumCounters sizes the admission filter (about 10x the expected entries).
	// Default: 100000
	NumCounters int64 `yaml:"num_counters"`

	// MaxCost is the total encoded bytes the cache may hold.
	// Default: 64MB
	MaxCost int64 `yaml:"max_cost"`
}

// SnapshotConfig holds snapshot capture and retention defaults.
type SnapshotConfig struct {
	// AutoCapture captures today's state on its first read.
	// Default: true
	AutoCapture bool `yaml:"auto_capture"`

	// DefaultMaxDays and DefaultMaxCount seed a new user's retention policy.
	// Zero means unlimited.
	DefaultMaxDays  int `yaml:"default_max_days"`
	DefaultMaxCount int `yaml:"default_max_count"`
}

// AnalyticsConfig holds analytics query bounds.
type AnalyticsConfig struct {
	// MaxRangeDays rejects queries spanning more days than this.
	// Default: 3660
	MaxRangeDays int `yaml:"max_range_days"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	// File enables a rotating log file in addition to stderr.
	File string `yaml:"file"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			TTL:         5 * time.Minute,
			NumCounters: 100_000,
			MaxCost:     64 << 20,
		},
		Snapshot: SnapshotConfig{
			AutoCapture: true,
		},
		Analytics: AnalyticsConfig{
			MaxRangeDays: 3660,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDataPath returns the default database path under the XDG base directories.
func DefaultDataPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// DefaultConfigFile returns the default config file path under the XDG base directories.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load builds a config from defaults, the config file and the environment.
// A missing config file is not an error.
func Load() (*RuntimeConfig, error) {
	return LoadPath(os.Getenv("DAYMARK_CONFIG"))
}

// LoadPath is Load with an explicit config file. Empty path means the XDG
// default.
func LoadPath(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	if path == "" {
		path = DefaultConfigFile()
	}
	if err := cfg.LoadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg.loadFromEnv()
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultDataPath()
	}
	return cfg, nil
}

// LoadFile overlays values from a YAML file onto the config.
func (c *RuntimeConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	// Server configuration
	if v := os.Getenv("DAYMARK_ADDR"); v != "" {
		c.Server.Addr = v
	}

	// Storage configuration
	if v := os.Getenv("DAYMARK_DATABASE"); v != "" {
		if v == ":memory:" {
			c.Storage.InMemory = true
		} else {
			c.Storage.Path = v
		}
	}

	// Cache configuration
	if v := os.Getenv("DAYMARK_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv("DAYMARK_CACHE_MAX_COST"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Cache.MaxCost = n
		}
	}

	// Snapshot configuration
	if v := os.Getenv("DAYMARK_AUTO_CAPTURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Snapshot.AutoCapture = b
		}
	}
	if v := os.Getenv("DAYMARK_RETENTION_MAX_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Snapshot.DefaultMaxDays = n
		}
	}
	if v := os.Getenv("DAYMARK_RETENTION_MAX_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Snapshot.DefaultMaxCount = n
		}
	}

	// Analytics configuration
	if v := os.Getenv("DAYMARK_ANALYTICS_MAX_RANGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analytics.MaxRangeDays = n
		}
	}

	// Log configuration
	if v := os.Getenv("DAYMARK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DAYMARK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}
