package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/msgfeed/internal/core/config"
	"github.com/colonyops/msgfeed/internal/data/db"
	"github.com/colonyops/msgfeed/internal/tui/notify"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// ProfilerPort enables the pprof endpoint for tui and play when > 0.
	ProfilerPort int
}

// App holds the dependencies built in the root Before hook. Commands keep a
// pointer to it and read it when they run.
type App struct {
	Config *config.Config
	DB     *db.DB
	// Notify records removals and clicks. Its store is nil when history is
	// disabled.
	Notify *notify.Bus
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "msgfeed", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "msgfeed")
}
