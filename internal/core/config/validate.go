package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep runs Validate and then checks the config file and data
// directory on disk. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.History.Enabled && c.History.Retention > 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "retention",
			Message:  "retention is set but history is disabled",
		})
	}

	if c.History.Enabled && c.History.Retention > 0 && c.History.SweepInterval > c.History.Retention {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "sweep_interval",
			Message:  fmt.Sprintf("sweep interval %s is longer than retention %s", c.History.SweepInterval, c.History.Retention),
		})
	}

	if c.Feed.DefaultLife > 0 && c.Feed.DefaultLife < 500*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Feed",
			Item:     "default_life",
			Message:  fmt.Sprintf("default life %s is too short to read", c.Feed.DefaultLife),
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
