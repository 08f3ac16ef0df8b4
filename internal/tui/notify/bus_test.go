package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/feed/feedtest"
	"github.com/colonyops/msgfeed/internal/core/notify"
)

// memStore is an in-memory notify.Store for testing.
type memStore struct {
	items   []notify.Event
	nextID  int64
	saveErr error
}

func (m *memStore) Save(_ context.Context, e notify.Event) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.nextID++
	e.ID = m.nextID
	m.items = append(m.items, e)
	return e.ID, nil
}

func (m *memStore) List(_ context.Context, limit int) ([]notify.Event, error) {
	// Return newest first.
	out := make([]notify.Event, len(m.items))
	for i, e := range m.items {
		out[len(m.items)-1-i] = e
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.items = nil
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memStore) DeleteBefore(_ context.Context, t time.Time) (int64, error) {
	alive := m.items[:0]
	var n int64
	for _, e := range m.items {
		if e.CreatedAt.Before(t) {
			n++
			continue
		}
		alive = append(alive, e)
	}
	m.items = alive
	return n, nil
}

func TestBus_Removed_and_Clicked_dispatch(t *testing.T) {
	bus := NewBus(&memStore{})

	var received []notify.Event
	bus.Subscribe(func(e notify.Event) {
		received = append(received, e)
	})

	bus.Removed(feed.Message{ID: "a", Severity: feed.SeverityError, Summary: "Failed", Detail: "disk full"})
	bus.Clicked(feed.Message{ID: "b", Content: "custom"})

	require.Len(t, received, 2)
	assert.Equal(t, notify.KindRemoved, received[0].Kind)
	assert.Equal(t, "a", received[0].MessageID)
	assert.Equal(t, feed.SeverityError, received[0].Severity)
	assert.Equal(t, "Failed", received[0].Summary)
	assert.Equal(t, "disk full", received[0].Detail)

	assert.Equal(t, notify.KindClicked, received[1].Kind)
	assert.Equal(t, "custom", received[1].Summary, "custom content is recorded as the summary")
}

func TestBus_Publish_assigns_id_from_store(t *testing.T) {
	bus := NewBus(&memStore{})

	var received notify.Event
	bus.Subscribe(func(e notify.Event) {
		received = e
	})

	bus.Removed(feed.Message{Summary: "get id"})

	assert.Equal(t, int64(1), received.ID)
}

func TestBus_Publish_sets_created_at(t *testing.T) {
	bus := NewBus(&memStore{})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	var received notify.Event
	bus.Subscribe(func(e notify.Event) {
		received = e
	})

	bus.Removed(feed.Message{Summary: "timestamp check"})
	assert.Equal(t, fixed, received.CreatedAt)
}

func TestBus_Publish_store_error_still_dispatches(t *testing.T) {
	bus := NewBus(&memStore{saveErr: errors.New("disk gone")})

	var received []notify.Event
	bus.Subscribe(func(e notify.Event) {
		received = append(received, e)
	})

	bus.Removed(feed.Message{Summary: "unsaved"})

	require.Len(t, received, 1)
	assert.Zero(t, received[0].ID)
}

func TestBus_History_returns_newest_first(t *testing.T) {
	bus := NewBus(&memStore{})
	ctx := context.Background()

	bus.Removed(feed.Message{Summary: "first"})
	bus.Removed(feed.Message{Summary: "second"})
	bus.Removed(feed.Message{Summary: "third"})

	history, err := bus.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Summary)
	assert.Equal(t, "first", history[2].Summary)

	limited, err := bus.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus(&memStore{})
	ctx := context.Background()

	bus.Removed(feed.Message{Summary: "to be cleared"})
	require.NoError(t, bus.Clear(ctx))

	history, err := bus.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBus_nil_store(t *testing.T) {
	bus := NewBus(nil)
	ctx := context.Background()

	var received []notify.Event
	bus.Subscribe(func(e notify.Event) {
		received = append(received, e)
	})

	bus.Removed(feed.Message{Summary: "no store"})

	assert.Len(t, received, 1)

	history, err := bus.History(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, history)

	assert.NoError(t, bus.Clear(ctx))
}

func TestBus_as_controller_sink(t *testing.T) {
	store := &memStore{}
	bus := NewBus(store)

	clock := feedtest.NewClock()
	rec := &feedtest.Recorder{}
	opts := rec.Options(clock)
	opts.OnRemove = bus.Removed
	opts.OnClick = bus.Clicked
	c := feed.New(opts)

	entries := c.Show(
		feed.Message{ID: "keep", Summary: "clicked"},
		feed.Message{ID: "gone", Summary: "expires", Life: time.Second},
	)
	c.Click(entries[0].Ref())
	clock.Advance(time.Second)
	c.Clear()

	require.Len(t, store.items, 2, "clear does not record removals")
	assert.Equal(t, notify.KindClicked, store.items[0].Kind)
	assert.Equal(t, "keep", store.items[0].MessageID)
	assert.Equal(t, notify.KindRemoved, store.items[1].Kind)
	assert.Equal(t, "gone", store.items[1].MessageID)
}
