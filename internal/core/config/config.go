// Package config handles configuration loading and validation for msgfeed.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Feed     FeedConfig     `yaml:"feed"     json:"feed"`
	TUI      TUIConfig      `yaml:"tui"      json:"tui"`
	History  HistoryConfig  `yaml:"history"  json:"history"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	DataDir  string         `yaml:"-"        json:"data_dir"` // set by caller, not from config file
}

// FeedConfig tunes the feed controller.
type FeedConfig struct {
	// DefaultLife is used for messages that do not set a positive life.
	DefaultLife time.Duration `yaml:"default_life" json:"default_life"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme" json:"theme"`
	Width int    `yaml:"width" json:"width"` // 0 uses the terminal width
}

// HistoryConfig controls recording of removed and clicked messages.
type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled"        json:"enabled"`
	Retention     time.Duration `yaml:"retention"      json:"retention"` // 0 keeps everything
	SweepInterval time.Duration `yaml:"sweep_interval" json:"sweep_interval"`
}

// DatabaseConfig holds SQLite pool settings.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"   json:"busy_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Feed: FeedConfig{
			DefaultLife: feed.DefaultLife,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		History: HistoryConfig{
			Enabled:       true,
			Retention:     7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5 * time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills fields whose zero value is never meaningful.
// History.Retention is left alone because zero disables the sweep.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Feed.DefaultLife == 0 {
		c.Feed.DefaultLife = defaults.Feed.DefaultLife
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.History.SweepInterval == 0 {
		c.History.SweepInterval = defaults.History.SweepInterval
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks structural constraints. It does not touch the filesystem.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}
	if c.Feed.DefaultLife <= 0 {
		errs = errs.Append("feed.default_life", fmt.Errorf("must be positive, got %s", c.Feed.DefaultLife))
	}
	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		errs = errs.Append("tui.theme", fmt.Errorf("unknown theme %q (available: %v)", c.TUI.Theme, styles.ThemeNames()))
	}
	if c.TUI.Width < 0 {
		errs = errs.Append("tui.width", fmt.Errorf("cannot be negative"))
	}
	if c.History.Retention < 0 {
		errs = errs.Append("history.retention", fmt.Errorf("cannot be negative"))
	}
	if c.History.SweepInterval <= 0 {
		errs = errs.Append("history.sweep_interval", fmt.Errorf("must be positive"))
	}
	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must be between 0 and max_open_conns"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative"))
	}

	return criterio.ValidateStruct(errs.ToError())
}
