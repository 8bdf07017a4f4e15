// Package config reads and writes .flagdeck/config.json, which selects the
// preference store backend and logging setup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/marcus/flagdeck/pkg/prefs"
)

const (
	configDir  = ".flagdeck"
	configFile = ".flagdeck/config.json"
	lockFile   = ".flagdeck/config.json.lock"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Defaults
const (
	DefaultBackend   = BackendFile
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Configuration keys accepted by Get and Set.
const (
	KeyStoreBackend = "store.backend"
	KeyStorePath    = "store.path"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

var (
	backends   = []string{BackendMemory, BackendFile, BackendSQLite}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config is the on-disk configuration.
type Config struct {
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

// StoreConfig selects the preference store.
type StoreConfig struct {
	Backend string `json:"backend,omitempty"`
	Path    string `json:"path,omitempty"` // relative paths are resolved against the base dir
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// Keys lists every configuration key in display order.
func Keys() []string {
	return []string{KeyStoreBackend, KeyStorePath, KeyLogLevel, KeyLogFormat}
}

// Path returns the config file location under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Dir returns the flagdeck state directory under baseDir.
func Dir(baseDir string) string {
	return filepath.Join(baseDir, configDir)
}

// Load reads the config from disk
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(Path(baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *Config) error {
	configPath := Path(baseDir)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes read-modify-write cycles on config.json
func withConfigLock(baseDir string, fn func() error) error {
	return prefs.WithFileLock(filepath.Join(baseDir, lockFile), fn)
}

// Backend returns the configured backend, or the default.
func (c *Config) Backend() string {
	if c.Store.Backend == "" {
		return DefaultBackend
	}
	return c.Store.Backend
}

// StorePath returns the absolute store location for the configured
// backend. Memory stores have no path.
func (c *Config) StorePath(baseDir string) string {
	path := c.Store.Path
	switch {
	case path != "":
	case c.Backend() == BackendFile:
		path = filepath.Join(configDir, "prefs.json")
	case c.Backend() == BackendSQLite:
		path = filepath.Join(configDir, "prefs.db")
	default:
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LogLevel returns the configured level, or the default.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return DefaultLogLevel
	}
	return c.Log.Level
}

// LogFormat returns the configured format, or the default.
func (c *Config) LogFormat() string {
	if c.Log.Format == "" {
		return DefaultLogFormat
	}
	return c.Log.Format
}

// Get returns the raw value of key; unset keys return "".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyStoreBackend:
		return c.Store.Backend, nil
	case KeyStorePath:
		return c.Store.Path, nil
	case KeyLogLevel:
		return c.Log.Level, nil
	case KeyLogFormat:
		return c.Log.Format, nil
	}
	return "", unknownKey(key)
}

// Effective returns the value of key with defaults applied.
func (c *Config) Effective(key, baseDir string) (string, error) {
	switch key {
	case KeyStoreBackend:
		return c.Backend(), nil
	case KeyStorePath:
		return c.StorePath(baseDir), nil
	case KeyLogLevel:
		return c.LogLevel(), nil
	case KeyLogFormat:
		return c.LogFormat(), nil
	}
	return "", unknownKey(key)
}

// Apply validates and assigns value to key. An empty value unsets it.
func (c *Config) Apply(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyStoreBackend:
		if err := oneOf(key, value, backends); err != nil {
			return err
		}
		c.Store.Backend = value
	case KeyStorePath:
		c.Store.Path = value
	case KeyLogLevel:
		value = strings.ToLower(value)
		if err := oneOf(key, value, logLevels); err != nil {
			return err
		}
		c.Log.Level = value
	case KeyLogFormat:
		value = strings.ToLower(value)
		if err := oneOf(key, value, logFormats); err != nil {
			return err
		}
		c.Log.Format = value
	default:
		return unknownKey(key)
	}
	return nil
}

// Set updates one key on disk.
func Set(baseDir, key, value string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		if err := cfg.Apply(key, value); err != nil {
			return err
		}
		return Save(baseDir, cfg)
	})
}

func oneOf(key, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (expected one of: %s)", key, value, strings.Join(allowed, ", "))
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
}
