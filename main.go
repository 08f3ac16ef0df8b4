package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/msgfeed/internal/commands"
	"github.com/colonyops/msgfeed/internal/core/config"
	"github.com/colonyops/msgfeed/internal/core/logging"
	"github.com/colonyops/msgfeed/internal/core/styles"
	"github.com/colonyops/msgfeed/internal/data/db"
	"github.com/colonyops/msgfeed/internal/data/stores"
	"github.com/colonyops/msgfeed/internal/printer"
	"github.com/colonyops/msgfeed/internal/sweep"
	"github.com/colonyops/msgfeed/internal/tui/notify"
	"github.com/colonyops/msgfeed/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the history database, moving a corrupted file aside and
// starting fresh when SQLite reports corruption.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w (open: %w)", rerr, err)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted; moved aside and recreated")

	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		app         = &commands.App{}
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "msgfeed",
		Usage:     "Transient message feed for terminal applications",
		UsageText: "msgfeed [global options] command [command options]",
		Description: `msgfeed shows short-lived notifications in an ordered feed. Messages expire
after their lifetime unless they are sticky, and can be removed, clicked,
replaced or cleared.

Run 'msgfeed' with no arguments to open the interactive feed.
Run 'msgfeed play -f script.yaml' to replay a scripted scenario.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MSGFEED_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/msgfeed.log)",
				Sources:     cli.EnvVars("MSGFEED_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MSGFEED_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("MSGFEED_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so output never interleaves with the TUI or
			// with printed frames.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "msgfeed.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logging.Contextual(logger)
			logCloser = closer

			ctx = printer.NewContext(ctx, printer.New(c.Root().Writer))

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Validation ensures the theme name is known.
			if err := styles.SetThemeByName(cfg.TUI.Theme); err != nil {
				return ctx, err
			}

			database, err := openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// A nil store keeps events in memory only.
			bus := notify.NewBus(nil)
			if cfg.History.Enabled {
				store := stores.NewNotifyStore(database)
				bus = notify.NewBus(store)

				sweepCtx, cancel := context.WithCancel(context.Background())
				sweepCancel = cancel
				go sweep.Start(sweepCtx, store, cfg.History.SweepInterval, cfg.History.Retention)
			}

			*app = commands.App{
				Config: cfg,
				DB:     database,
				Notify: bus,
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sweepCancel != nil {
				sweepCancel()
			}

			if app.DB != nil {
				if err := app.DB.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)

	root = commands.NewPlayCmd(flags, app).Register(root)
	root = commands.NewHistoryCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags, app).Register(root)

	// Register TUI flags on root command. Root flags are inherited, so play
	// sees --profiler-port too.
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'msgfeed --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
