package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/msgfeed/internal/core/eventbus"
	"github.com/colonyops/msgfeed/internal/core/logging"
	"github.com/colonyops/msgfeed/internal/play"
	"github.com/colonyops/msgfeed/pkg/iojson"
)

type PlayCmd struct {
	flags *Flags
	app   *App

	file  *iojson.FileReader[play.Script]
	drain bool
	json  bool
}

// NewPlayCmd creates a new play command.
func NewPlayCmd(flags *Flags, app *App) *PlayCmd {
	return &PlayCmd{
		flags: flags,
		app:   app,
		file:  &iojson.FileReader[play.Script]{},
	}
}

// Register adds the play command to the application.
func (cmd *PlayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "play",
		Usage:     "Replay a scripted scenario against the feed",
		UsageText: "msgfeed play [-f script.yaml] [--drain] [--json]",
		Description: `Runs a YAML or JSON script against a feed controller on real timers and
prints every rendered frame, removal and click.

The script is read from --file, or from stdin when no file is given.

Example:
  steps:
    - show: [{id: save, severity: info, summary: Saved, life: 1s}]
    - wait: 1500ms
    - remove_matching: "upload-*"
    - clear: true`,
		Flags: []cli.Flag{
			cmd.file.Flag(),
			&cli.BoolFlag{
				Name:        "drain",
				Usage:       "keep running after the last step until every message has expired",
				Destination: &cmd.drain,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print one JSON object per event",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PlayCmd) run(ctx context.Context, c *cli.Command) error {
	script, err := cmd.file.Read()
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if script.Name == "" && cmd.file.Path() != "" {
		script.Name = filepath.Base(cmd.file.Path())
	}

	stopProfiler, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	out := c.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	bus := eventbus.New(256)
	busCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go bus.Start(busCtx)

	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	eventbus.NewSinkRouter(bus, cmd.app.Notify).Register()

	printer := play.NewPrinter(out, os.Stderr, play.DetectFormat(out, cmd.json))
	printer.Register(bus)

	player := play.New(play.Options{
		Bus:         bus,
		DefaultLife: cmd.app.Config.Feed.DefaultLife,
		Drain:       cmd.drain,
		Logger:      logging.Component("play"),
	})

	res, err := player.Run(ctx, script)
	if err != nil {
		return err
	}

	logging.Component("play").Debug().
		Int("steps", res.Steps).
		Int("frames", printer.Frames()).
		Int("remaining", len(res.Remaining)).
		Msg("script finished")
	return nil
}
