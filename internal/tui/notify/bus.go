package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/notify"
)

// Subscriber is a callback invoked when a sink event is published.
type Subscriber func(notify.Event)

// Bus is the feed's notification sink. It persists each event to a Store and
// dispatches it to subscribers inline. Removed and Clicked have the
// signatures of feed.Options.OnRemove and feed.Options.OnClick.
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	mu          sync.Mutex
	now         func() time.Time
}

// NewBus creates a notification bus backed by the given store.
// If store is nil, events are dispatched to subscribers but not persisted.
func NewBus(store notify.Store) *Bus {
	return &Bus{
		store: store,
		now:   time.Now,
	}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Removed publishes a removal event for m.
func (b *Bus) Removed(m feed.Message) {
	b.Publish(notify.NewEvent(notify.KindRemoved, m))
}

// Clicked publishes a click event for m.
func (b *Bus) Clicked(m feed.Message) {
	b.Publish(notify.NewEvent(notify.KindClicked, m))
}

// Publish persists e and dispatches it to all subscribers. Persistence
// failures are logged and do not stop dispatch.
func (b *Bus) Publish(e notify.Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = b.now()
	}

	// Persist first so the event has an ID for subscribers.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), e)
		if err != nil {
			log.Error().Err(err).
				Str("kind", string(e.Kind)).
				Str("message_id", e.MessageID).
				Msg("failed to persist feed event")
		} else {
			e.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

// History returns persisted events, newest first. limit <= 0 returns all.
// Returns nil if no store is configured.
func (b *Bus) History(ctx context.Context, limit int) ([]notify.Event, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(ctx, limit)
}

// Clear deletes all persisted events.
func (b *Bus) Clear(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(ctx)
}
