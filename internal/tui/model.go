package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/msgfeed/internal/core/config"
	"github.com/colonyops/msgfeed/internal/core/feed"
	corenotify "github.com/colonyops/msgfeed/internal/core/notify"
	"github.com/colonyops/msgfeed/internal/core/styles"
	"github.com/colonyops/msgfeed/internal/tui/notify"
)

// Deps are the collaborators of the TUI.
type Deps struct {
	Config *config.Config
	// Notify records sink events. Nil disables history.
	Notify *notify.Bus
	Logger *zerolog.Logger
}

// statusLine holds the last sink event. It is shared by pointer because sink
// callbacks run inside Update on a copy of the model.
type statusLine struct {
	text string
}

func (s *statusLine) event(e corenotify.Event) {
	what := e.Summary
	if what == "" {
		what = e.MessageID
	}
	s.text = fmt.Sprintf("%s: %s", e.Kind, what)
}

// Model is the feed demo TUI.
type Model struct {
	ctrl   *feed.Controller
	sched  *teaScheduler
	view   *FeedView
	status *statusLine
	keys   KeyMap
	help   help.Model

	samples  int
	width    int
	height   int
	quitting bool
}

// New builds the model and its feed controller.
func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		d := config.DefaultConfig()
		cfg = &d
	}

	sched := newTeaScheduler()
	view := NewFeedView(cfg.TUI.Width)
	status := &statusLine{}

	opts := feed.Options{
		Scheduler:   sched,
		Renderer:    view,
		DefaultLife: cfg.Feed.DefaultLife,
		Logger:      deps.Logger,
	}
	if deps.Notify != nil {
		deps.Notify.Subscribe(status.event)
		opts.OnRemove = deps.Notify.Removed
		opts.OnClick = deps.Notify.Clicked
	} else {
		opts.OnRemove = func(m feed.Message) { status.event(corenotify.NewEvent(corenotify.KindRemoved, m)) }
		opts.OnClick = func(m feed.Message) { status.event(corenotify.NewEvent(corenotify.KindClicked, m)) }
	}

	h := help.New()
	h.ShowAll = true

	return Model{
		ctrl:   feed.New(opts),
		sched:  sched,
		view:   view,
		status: status,
		keys:   DefaultKeyMap(),
		help:   h,
		width:  80,
		height: 24,
	}
}

// Controller exposes the feed for callers that drive the model directly.
func (m Model) Controller() *feed.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case timerFiredMsg:
		m.sched.Fire(msg.id)

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m = m.handleKey(msg)
	}

	return m, m.sched.Flush()
}

func (m Model) handleKey(msg tea.KeyPressMsg) Model {
	if i := m.keys.sampleIndex(msg); i >= 0 {
		m.ctrl.Show(m.nextSample(sampleSeverities[i]))
		return m
	}

	switch {
	case key.Matches(msg, m.keys.Sticky):
		s := m.nextSample(feed.SeverityInfo)
		s.Summary = "Pinned"
		s.Sticky = true
		m.ctrl.Show(s)
	case key.Matches(msg, m.keys.Batch):
		m.ctrl.Show(
			m.nextSample(feed.SeveritySuccess),
			m.nextSample(feed.SeverityInfo),
			m.nextSample(feed.SeverityWarn),
		)
	case key.Matches(msg, m.keys.Replace):
		m.ctrl.Replace(m.nextSample(feed.SeverityContrast))
	case key.Matches(msg, m.keys.Remove):
		if e, ok := m.view.Selected(); ok && e.Message.IsClosable() {
			m.ctrl.Remove(e.Ref())
		}
	case key.Matches(msg, m.keys.Click):
		if e, ok := m.view.Selected(); ok {
			m.ctrl.Click(e.Ref())
		}
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
	case key.Matches(msg, m.keys.Up):
		m.view.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.view.MoveDown()
	}
	return m
}

func (m *Model) nextSample(sev feed.Severity) feed.Message {
	m.samples++
	return sampleMessage(sev, m.samples)
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("msgfeed"))
	b.WriteString("  ")
	b.WriteString(styles.MutedTextStyle.Render(
		fmt.Sprintf("%d messages, %d timers", m.ctrl.Len(), m.ctrl.Pending()),
	))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	switch {
	case m.status.text != "":
		b.WriteString(styles.StatusStyle.Render(m.status.text))
	case m.ctrl.Len() == 0:
		b.WriteString(styles.EmptyStyle.Render("feed is empty, press 1-6 to show a message"))
	}

	background := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Render(b.String())

	return m.view.Overlay(background, m.width, m.height)
}
