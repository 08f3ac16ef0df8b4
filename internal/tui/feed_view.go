package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/styles"
)

const defaultFeedWidth = 50

// FeedView is the controller's Renderer in the TUI. It keeps the latest
// snapshot and a selection cursor, and draws the stack as an overlay.
type FeedView struct {
	entries  []feed.Entry
	selected int
	width    int
	frames   int
}

var _ feed.Renderer = (*FeedView)(nil)

func NewFeedView(width int) *FeedView {
	if width <= 0 {
		width = defaultFeedWidth
	}
	return &FeedView{width: width}
}

// Render implements feed.Renderer.
func (v *FeedView) Render(entries []feed.Entry) {
	v.entries = entries
	v.frames++
	v.clamp()
}

// Entries returns the last rendered snapshot.
func (v *FeedView) Entries() []feed.Entry {
	return v.entries
}

// Frames counts Render calls.
func (v *FeedView) Frames() int {
	return v.frames
}

// Selected returns the entry under the cursor.
func (v *FeedView) Selected() (feed.Entry, bool) {
	if len(v.entries) == 0 {
		return feed.Entry{}, false
	}
	return v.entries[v.selected], true
}

func (v *FeedView) MoveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

func (v *FeedView) MoveDown() {
	if v.selected < len(v.entries)-1 {
		v.selected++
	}
}

func (v *FeedView) clamp() {
	v.selected = max(min(v.selected, len(v.entries)-1), 0)
}

// View renders the stack with the oldest entry at the top.
func (v *FeedView) View() string {
	if len(v.entries) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(v.entries))
	for i, e := range v.entries {
		rendered = append(rendered, v.renderEntry(e, i == v.selected))
	}
	return strings.Join(rendered, "\n")
}

func (v *FeedView) renderEntry(e feed.Entry, selected bool) string {
	m := e.Message
	accent := styles.SeverityStyle(m.Severity)

	cursor := " "
	if selected {
		cursor = styles.IconCursor
	}

	head := cursor + " " + accent.Render(styles.MessageIcon(m)) + " "
	var body string
	switch {
	case m.Content != "":
		body = styles.EntryDetailStyle.Render(m.Content)
	case m.Detail != "":
		body = styles.EntrySummaryStyle.Render(m.Summary) + "\n" + styles.EntryDetailStyle.Render(m.Detail)
	default:
		body = styles.EntrySummaryStyle.Render(m.Summary)
	}

	var marks []string
	if m.Sticky {
		marks = append(marks, styles.IconPin)
	}
	if m.IsClosable() {
		marks = append(marks, styles.EntryCloseStyle.Render(styles.IconClose))
	}
	tail := strings.Join(marks, " ")

	inner := v.width - 2
	bodyWidth := max(inner-lipgloss.Width(head)-lipgloss.Width(tail)-1, 1)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		head,
		lipgloss.NewStyle().Width(bodyWidth).Render(body),
		" "+tail,
	)

	style := styles.EntryStyle
	if selected {
		style = styles.EntrySelectedStyle
	}
	return style.Width(v.width).Render(row)
}

// Overlay composites the stack over background in the lower-right corner.
func (v *FeedView) Overlay(background string, width, height int) string {
	content := v.View()
	if content == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	feedLayer := lipgloss.NewLayer(content)

	feedW := lipgloss.Width(content)
	feedH := lipgloss.Height(content)

	feedLayer.X(max(width-feedW-1, 0)).Y(max(height-feedH, 0)).Z(2)

	return lipgloss.NewCompositor(bgLayer, feedLayer).Render()
}
