// Package notify defines the sink events the feed emits when a message is
// removed or clicked, and the store that records them.
package notify

import (
	"context"
	"time"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// Kind is the type of sink event.
type Kind string

const (
	KindRemoved Kind = "removed"
	KindClicked Kind = "clicked"
)

// Event records one sink callback.
type Event struct {
	ID        int64         `json:"id"`
	Kind      Kind          `json:"kind"`
	MessageID string        `json:"message_id,omitempty"`
	Severity  feed.Severity `json:"severity,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewEvent builds an event of the given kind from a feed message.
func NewEvent(kind Kind, m feed.Message) Event {
	summary := m.Summary
	if m.Content != "" {
		summary = m.Content
	}
	return Event{
		Kind:      kind,
		MessageID: m.ID,
		Severity:  m.Severity,
		Summary:   summary,
		Detail:    m.Detail,
	}
}

// Store persists sink events to durable storage.
type Store interface {
	Save(ctx context.Context, e Event) (int64, error)
	// List returns events newest first. limit <= 0 returns all events.
	List(ctx context.Context, limit int) ([]Event, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// DeleteBefore removes events created before t and returns how many
	// were removed.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}
