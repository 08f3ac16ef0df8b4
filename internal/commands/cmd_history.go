package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/msgfeed/internal/core/notify"
	"github.com/colonyops/msgfeed/internal/core/styles"
	"github.com/colonyops/msgfeed/internal/data/stores"
	"github.com/colonyops/msgfeed/internal/printer"
	"github.com/colonyops/msgfeed/internal/sweep"
	"github.com/colonyops/msgfeed/pkg/iojson"
)

const historyWrap = 100

type HistoryCmd struct {
	flags *Flags
	app   *App

	limit     int
	json      bool
	olderThan time.Duration
}

// NewHistoryCmd creates a new history command.
func NewHistoryCmd(flags *Flags, app *App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Show recorded removals and clicks",
		Description: `Lists feed events recorded by the tui and play commands, newest first.

Events are kept for history.retention and pruned in the background.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of events to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print events as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.runList,
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete every recorded event",
				Action: cmd.runClear,
			},
			{
				Name:  "prune",
				Usage: "Delete events older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "age of the oldest event to keep (defaults to history.retention)",
						Destination: &cmd.olderThan,
					},
				},
				Action: cmd.runPrune,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) store() *stores.NotifyStore {
	return stores.NewNotifyStore(cmd.app.DB)
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	events, err := cmd.store().List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if cmd.json {
		if events == nil {
			events = []notify.Event{}
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, events)
	}

	p := printer.Ctx(ctx)
	if len(events) == 0 {
		p.Infof("No history recorded")
		return nil
	}

	p.Printf("%s", renderMarkdown(historyMarkdown(events)))
	return nil
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	store := cmd.store()

	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	printer.Ctx(ctx).Successf("Deleted %d event(s)", n)
	return nil
}

func (cmd *HistoryCmd) runPrune(ctx context.Context, _ *cli.Command) error {
	olderThan := cmd.olderThan
	if olderThan <= 0 {
		olderThan = cmd.app.Config.History.Retention
	}
	if olderThan <= 0 {
		return fmt.Errorf("no retention configured; pass --older-than")
	}

	n := sweep.Once(ctx, cmd.store(), time.Now(), olderThan)
	printer.Ctx(ctx).Successf("Pruned %d event(s) older than %s", n, olderThan)
	return nil
}

// historyMarkdown builds a markdown table of events.
func historyMarkdown(events []notify.Event) string {
	var b strings.Builder
	b.WriteString("| When | Kind | Severity | ID | Message |\n")
	b.WriteString("|------|------|----------|----|---------|\n")

	for _, e := range events {
		text := e.Summary
		if e.Detail != "" {
			text += ": " + e.Detail
		}
		sev := string(e.Severity)
		if sev == "" {
			sev = "-"
		}
		id := e.MessageID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.CreatedAt.Local().Format(time.DateTime),
			e.Kind,
			sev,
			escapeCell(id),
			escapeCell(text),
		)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// renderMarkdown renders md with the active theme, falling back to the raw
// markdown when glamour fails.
func renderMarkdown(md string) string {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(historyWrap),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.TrimRight(out, "\n")
}
