package feed

import (
	"strings"
	"time"
)

// DefaultLife is how long a non-sticky message stays in the feed when
// neither the message nor the controller specifies a lifetime.
const DefaultLife = 3 * time.Second

// Message is the caller-facing description of a notification.
type Message struct {
	// ID is an optional caller-supplied identifier. It is not required to be
	// unique; see Ref for how removal matches entries.
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Severity Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	// Content overrides Summary and Detail when non-empty.
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Detail  string `yaml:"detail,omitempty" json:"detail,omitempty"`
	// Icon overrides the severity icon chosen by the renderer.
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
	// Closable controls whether the renderer offers a manual dismiss.
	// nil means closable.
	Closable *bool `yaml:"closable,omitempty" json:"closable,omitempty"`
	// Sticky messages are never removed by expiry.
	Sticky bool `yaml:"sticky,omitempty" json:"sticky,omitempty"`
	// Life is the delay before automatic removal. Values <= 0 use the
	// controller default.
	Life time.Duration `yaml:"life,omitempty" json:"life,omitempty"`
}

// IsClosable reports whether the message may be dismissed manually.
func (m Message) IsClosable() bool {
	return m.Closable == nil || *m.Closable
}

// Text returns the display text: Content when set, otherwise the summary and
// detail joined by ": ".
func (m Message) Text() string {
	if m.Content != "" {
		return m.Content
	}

	parts := make([]string, 0, 2)
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}
	if m.Detail != "" {
		parts = append(parts, m.Detail)
	}
	return strings.Join(parts, ": ")
}

// Bool returns a pointer to v, for setting Message.Closable.
func Bool(v bool) *bool {
	return &v
}
