// ABOUTME: Weightplan configuration management with backend selection.
// ABOUTME: Handles settings, history defaults, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/weightplan/internal/charm"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/storage"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config stores weightplan configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts weightplan.db here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/weightplan.
	DataDir string `json:"data_dir,omitempty"`

	// DBPath overrides the SQLite file location outright.
	DBPath string `json:"db_path,omitempty"`

	// DefaultGroup and DefaultRange seed the history command's flags.
	DefaultGroup string `json:"default_group,omitempty"`
	DefaultRange string `json:"default_range,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite file path.
func (c *Config) GetDBPath() string {
	if c.DBPath != "" {
		return ExpandPath(c.DBPath)
	}
	return filepath.Join(c.GetDataDir(), storage.DBFileName)
}

// GetDefaultGroup returns the configured history grouping, or daily.
func (c *Config) GetDefaultGroup() history.Group {
	if g, err := history.ParseGroup(c.DefaultGroup); err == nil {
		return g
	}
	return history.GroupDaily
}

// GetDefaultRange returns the configured history range, or one month.
func (c *Config) GetDefaultRange() history.Range {
	if c.DefaultRange == "" {
		return history.RangeMonth
	}
	if r, err := history.ParseRange(c.DefaultRange); err == nil {
		return r
	}
	return history.RangeMonth
}

// Validate rejects unknown backends and history defaults.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendCharm:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.DefaultGroup != "" {
		if _, err := history.ParseGroup(c.DefaultGroup); err != nil {
			return err
		}
	}
	if c.DefaultRange != "" {
		if _, err := history.ParseRange(c.DefaultRange); err != nil {
			return err
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend with this config's paths.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		db, err := storage.Open(c.GetDBPath())
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendCharm:
		client, err := charm.InitClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "weightplan", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
