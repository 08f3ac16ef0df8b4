package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// KeyMap holds the feed demo bindings.
type KeyMap struct {
	Samples []key.Binding // one per sample severity, in order
	Sticky  key.Binding
	Batch   key.Binding
	Replace key.Binding
	Remove  key.Binding
	Click   key.Binding
	Clear   key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

// sampleSeverities maps the number keys 1-6.
var sampleSeverities = []feed.Severity{
	feed.SeveritySuccess,
	feed.SeverityInfo,
	feed.SeverityWarn,
	feed.SeverityError,
	feed.SeveritySecondary,
	feed.SeverityContrast,
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	samples := make([]key.Binding, len(sampleSeverities))
	for i, sev := range sampleSeverities {
		k := string(rune('1' + i))
		samples[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, string(sev)))
	}

	return KeyMap{
		Samples: samples,
		Sticky:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sticky")),
		Batch:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "batch")),
		Replace: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replace")),
		Remove:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Click:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "click")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sticky, k.Batch, k.Replace, k.Remove, k.Click, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Samples,
		{k.Sticky, k.Batch, k.Replace},
		{k.Up, k.Down, k.Remove, k.Click, k.Clear},
		{k.Quit},
	}
}

// sampleIndex returns the severity index bound to msg, or -1.
func (k KeyMap) sampleIndex(msg tea.KeyPressMsg) int {
	for i, b := range k.Samples {
		if key.Matches(msg, b) {
			return i
		}
	}
	return -1
}
