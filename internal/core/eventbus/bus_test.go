package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/eventbus"
	"github.com/colonyops/msgfeed/internal/core/eventbus/testbus"
	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/feed/feedtest"
)

func TestEventBus_delivers_in_order(t *testing.T) {
	tb := testbus.New(t)

	for i := range 5 {
		tb.PublishScriptStep(eventbus.ScriptStepPayload{Index: i, Action: "wait"})
	}
	tb.Sync(t)

	steps := tb.Of(eventbus.EventScriptStep)
	require.Len(t, steps, 5)
	for i, p := range steps {
		assert.Equal(t, i, p.(eventbus.ScriptStepPayload).Index)
	}
}

func TestEventBus_drops_when_full(t *testing.T) {
	bus := eventbus.New(1)

	var mu sync.Mutex
	var dropped []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) {
		mu.Lock()
		dropped = append(dropped, e)
		mu.Unlock()
	})

	// Not started, so the second publish finds the buffer full.
	bus.PublishMessageRemoved(eventbus.MessageRemovedPayload{})
	bus.PublishMessageClicked(eventbus.MessageClickedPayload{})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []eventbus.Event{eventbus.EventMessageClicked}, dropped)
}

func TestEventBus_panicking_subscriber_does_not_stop_dispatch(t *testing.T) {
	tb := testbus.New(t)

	var panics int
	tb.OnPanic(func(eventbus.Event, any, any) { panics++ })
	tb.SubscribeMessageRemoved(func(eventbus.MessageRemovedPayload) { panic("bad subscriber") })

	tb.PublishMessageRemoved(eventbus.MessageRemovedPayload{Message: feed.Message{ID: "a"}})
	tb.PublishMessageRemoved(eventbus.MessageRemovedPayload{Message: feed.Message{ID: "b"}})
	tb.Sync(t)

	assert.Len(t, tb.Of(eventbus.EventMessageRemoved), 2)
	assert.Equal(t, 2, panics)
}

func TestEventBus_Flush_respects_context(t *testing.T) {
	bus := eventbus.New(1)
	bus.PublishFeedRendered(eventbus.FeedRenderedPayload{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, bus.Flush(ctx), context.DeadlineExceeded)
}

type recordingSink struct {
	mu      sync.Mutex
	removed []string
	clicked []string
}

func (s *recordingSink) Removed(m feed.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, m.ID)
}

func (s *recordingSink) Clicked(m feed.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicked = append(s.clicked, m.ID)
}

func TestAttach_and_SinkRouter(t *testing.T) {
	tb := testbus.New(t)
	sink := &recordingSink{}
	eventbus.NewSinkRouter(tb.EventBus, sink).Register()

	clock := feedtest.NewClock()
	rec := &feedtest.Recorder{}
	c := feed.New(tb.Attach(rec.Options(clock)))

	entries := c.Show(
		feed.Message{ID: "a", Summary: "first"},
		feed.Message{ID: "b", Summary: "second", Sticky: true},
	)
	c.Click(entries[1].Ref())
	clock.Advance(feed.DefaultLife)
	tb.Sync(t)

	assert.Empty(t, rec.Frames, "attached options replace the recorder")
	assert.Len(t, tb.Of(eventbus.EventFeedRendered), 2)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []string{"a"}, sink.removed)
	assert.Equal(t, []string{"b"}, sink.clicked)
}

func TestSinkRouter_nil_is_noop(t *testing.T) {
	var r *eventbus.SinkRouter
	assert.NotPanics(t, r.Register)
	assert.NotPanics(t, eventbus.NewSinkRouter(nil, nil).Register)
}
