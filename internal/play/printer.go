package play

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/colonyops/msgfeed/internal/core/eventbus"
	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/styles"
	"github.com/colonyops/msgfeed/pkg/iojson"
)

// Format selects how the printer writes events.
type Format int

const (
	FormatText Format = iota
	FormatStyled
	FormatJSON
)

// DetectFormat returns FormatJSON when asJSON is set, FormatStyled when w is
// a terminal, and FormatText otherwise.
func DetectFormat(w io.Writer, asJSON bool) Format {
	if asJSON {
		return FormatJSON
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatStyled
	}
	return FormatText
}

// Printer writes bus events to w. All callbacks run on the bus dispatch
// goroutine, so the printer needs no locking.
type Printer struct {
	w      io.Writer
	errw   io.Writer
	format Format
	frames int
}

// NewPrinter creates a printer. Marshal failures in JSON mode go to errw.
func NewPrinter(w, errw io.Writer, format Format) *Printer {
	return &Printer{w: w, errw: errw, format: format}
}

// Register subscribes the printer to every event it reports.
func (p *Printer) Register(bus *eventbus.EventBus) {
	bus.SubscribeScriptStep(p.step)
	bus.SubscribeFeedRendered(p.frame)
	bus.SubscribeMessageRemoved(func(e eventbus.MessageRemovedPayload) {
		p.sink("removed", e.Message)
	})
	bus.SubscribeMessageClicked(func(e eventbus.MessageClickedPayload) {
		p.sink("clicked", e.Message)
	})
}

// Frames returns how many frames have been printed.
func (p *Printer) Frames() int {
	return p.frames
}

type stepRecord struct {
	Event  string `json:"event"`
	Step   int    `json:"step"`
	Action string `json:"action"`
}

type frameRecord struct {
	Event   string      `json:"event"`
	Frame   int         `json:"frame"`
	Entries []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Seq     int64        `json:"seq"`
	Message feed.Message `json:"message"`
}

type sinkRecord struct {
	Event   string       `json:"event"`
	Message feed.Message `json:"message"`
}

func (p *Printer) step(e eventbus.ScriptStepPayload) {
	switch p.format {
	case FormatJSON:
		p.json(stepRecord{Event: string(eventbus.EventScriptStep), Step: e.Index, Action: e.Action})
	case FormatStyled:
		fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(fmt.Sprintf("step %d: %s", e.Index+1, e.Action)))
	default:
		fmt.Fprintf(p.w, "step %d: %s\n", e.Index+1, e.Action)
	}
}

func (p *Printer) frame(e eventbus.FeedRenderedPayload) {
	p.frames++

	if p.format == FormatJSON {
		entries := make([]jsonEntry, 0, len(e.Entries))
		for _, en := range e.Entries {
			entries = append(entries, jsonEntry{Seq: en.Seq, Message: en.Message})
		}
		p.json(frameRecord{Event: string(eventbus.EventFeedRendered), Frame: p.frames, Entries: entries})
		return
	}

	header := fmt.Sprintf("frame %d (%s)", p.frames, plural(len(e.Entries), "entry", "entries"))
	if len(e.Entries) == 0 {
		header = fmt.Sprintf("frame %d (empty)", p.frames)
	}
	if p.format == FormatStyled {
		header = styles.MutedTextStyle.Render(header)
	}
	fmt.Fprintln(p.w, header)

	for _, en := range e.Entries {
		fmt.Fprintln(p.w, "  "+p.entryLine(en))
	}
}

func (p *Printer) sink(kind string, m feed.Message) {
	switch p.format {
	case FormatJSON:
		event := eventbus.EventMessageRemoved
		if kind == "clicked" {
			event = eventbus.EventMessageClicked
		}
		p.json(sinkRecord{Event: string(event), Message: m})
	case FormatStyled:
		label := styles.MutedTextStyle.Render(kind + ":")
		fmt.Fprintf(p.w, "%s %s %s\n", label, styles.SeverityStyle(m.Severity).Render(styles.MessageIcon(m)), describe(m))
	default:
		fmt.Fprintf(p.w, "%s: %s\n", kind, describe(m))
	}
}

func (p *Printer) entryLine(e feed.Entry) string {
	m := e.Message

	var marks []string
	if m.Sticky {
		marks = append(marks, "sticky")
	}
	if !m.IsClosable() {
		marks = append(marks, "fixed")
	}
	suffix := ""
	if len(marks) > 0 {
		suffix = " (" + strings.Join(marks, ", ") + ")"
	}

	if p.format == FormatStyled {
		return fmt.Sprintf("%s %s %s%s",
			styles.EntrySeqStyle.Render(fmt.Sprintf("#%d", e.Seq)),
			styles.SeverityStyle(m.Severity).Render(styles.MessageIcon(m)),
			describe(m),
			styles.MutedTextStyle.Render(suffix),
		)
	}

	sev := string(m.Severity)
	if sev == "" {
		sev = "none"
	}
	return fmt.Sprintf("#%d [%s] %s%s", e.Seq, sev, describe(m), suffix)
}

func (p *Printer) json(rec any) {
	_ = iojson.WriteLineWith(p.w, p.errw, rec)
}

// describe renders the message text prefixed by its caller id, if any.
func describe(m feed.Message) string {
	text := m.Text()
	if m.ID == "" {
		return text
	}
	return m.ID + " " + text
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
