// Package config manages mapedit configuration and the .mapedit directory structure.
// It handles loading, saving, and initializing the workspace configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const (
	MapEditDir   = ".mapedit"
	ConfigFile   = "config"
	DatabaseFile = "mapedit.db"
	HistoryFile  = "history.db"
)

// DefaultNodeMoveTolerance is the distance in meters a node may move before
// edits on it are considered conflicting
const DefaultNodeMoveTolerance = 20.0

// ErrNotWorkspace is returned when no .mapedit directory is found
var ErrNotWorkspace = errors.New("not a mapedit workspace (or any parent up to root)")

// Config represents the mapedit configuration
type Config struct {
	NodeMoveTolerance float64 `toml:"node_move_tolerance"` // meters
	LogLevel          string  `toml:"log_level"`
	LogPretty         bool    `toml:"log_pretty"`
	MetricsFile       string  `toml:"metrics_file,omitempty"` // written after apply when set
	path              string  // path to .mapedit directory
}

// Default returns the configuration written by Initialize
func Default() *Config {
	return &Config{
		NodeMoveTolerance: DefaultNodeMoveTolerance,
		LogLevel:          "info",
		LogPretty:         true,
	}
}

// FindRoot finds the .mapedit directory by walking up from the current directory
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		root := filepath.Join(dir, MapEditDir)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotWorkspace
		}
		dir = parent
	}
}

// Load loads the configuration from the .mapedit directory
func Load() (*Config, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.path = root
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.NodeMoveTolerance <= 0 {
		return fmt.Errorf("node_move_tolerance must be positive, got %v", c.NodeMoveTolerance)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// Root returns the path to the .mapedit directory
func (c *Config) Root() string {
	return c.path
}

// DatabasePath returns the path to the bbolt database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// HistoryPath returns the path to the SQLite history database
func (c *Config) HistoryPath() string {
	return filepath.Join(c.path, HistoryFile)
}

// Initialize creates a new .mapedit directory with the default configuration
func Initialize() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root := filepath.Join(cwd, MapEditDir)
	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("mapedit workspace already exists")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", MapEditDir, err)
	}

	cfg := Default()
	cfg.path = root
	if err := cfg.Save(); err != nil {
		os.RemoveAll(root)
		return nil, err
	}

	return cfg, nil
}
