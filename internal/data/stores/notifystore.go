package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/notify"
	"github.com/colonyops/msgfeed/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a SQLite-backed store for feed events.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists e and returns its generated ID.
func (s *NotifyStore) Save(ctx context.Context, e notify.Event) (int64, error) {
	id, err := s.db.Queries().InsertEvent(ctx, db.InsertEventParams{
		Kind:      string(e.Kind),
		MessageID: e.MessageID,
		Severity:  string(e.Severity),
		Summary:   e.Summary,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt.UnixNano(),
	})
	if err != nil {
		return 0, fmt.Errorf("insert feed event: %w", err)
	}
	return id, nil
}

// List returns events newest first. limit <= 0 returns all of them.
func (s *NotifyStore) List(ctx context.Context, limit int) ([]notify.Event, error) {
	n := int64(limit)
	if limit <= 0 {
		n = -1
	}

	rows, err := s.db.Queries().ListEvents(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list feed events: %w", err)
	}

	result := make([]notify.Event, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToEvent(row))
	}
	return result, nil
}

// Clear deletes every recorded event.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllEvents(ctx); err != nil {
		return fmt.Errorf("clear feed events: %w", err)
	}
	return nil
}

// Count returns the number of recorded events.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Queries().CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("count feed events: %w", err)
	}
	return count, nil
}

// DeleteBefore removes events created before t.
func (s *NotifyStore) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	n, err := s.db.Queries().DeleteEventsBefore(ctx, t.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete feed events: %w", err)
	}
	return n, nil
}

func rowToEvent(row db.FeedEvent) notify.Event {
	return notify.Event{
		ID:        row.ID,
		Kind:      notify.Kind(row.Kind),
		MessageID: row.MessageID,
		Severity:  feed.Severity(row.Severity),
		Summary:   row.Summary,
		Detail:    row.Detail,
		CreatedAt: time.Unix(0, row.CreatedAt),
	}
}
