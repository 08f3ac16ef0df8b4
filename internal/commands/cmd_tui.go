package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/msgfeed/internal/core/logging"
	"github.com/colonyops/msgfeed/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *App

	width int
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "width",
			Usage:       "width of the feed overlay (overrides tui.width)",
			Sources:     cli.EnvVars("MSGFEED_TUI_WIDTH"),
			Destination: &cmd.width,
		},
		profilerFlag(cmd.flags),
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	stopProfiler, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	cfg := *cmd.app.Config
	if cmd.width > 0 {
		cfg.TUI.Width = cmd.width
	}

	logger := logging.Component("tui")
	m := tui.New(tui.Deps{
		Config: &cfg,
		Notify: cmd.app.Notify,
		Logger: &logger,
	})

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if model, ok := finalModel.(tui.Model); ok {
		log.Debug().
			Int("remaining", model.Controller().Len()).
			Msg("tui exited")
	}
	return nil
}
