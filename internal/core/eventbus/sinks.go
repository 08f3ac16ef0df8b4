package eventbus

import "github.com/colonyops/msgfeed/internal/core/feed"

// Attach points the controller callbacks in opts at the bus so every frame,
// removal and click becomes an event. Existing callbacks are replaced.
func (bus *EventBus) Attach(opts feed.Options) feed.Options {
	opts.Renderer = feed.RenderFunc(func(entries []feed.Entry) {
		bus.PublishFeedRendered(FeedRenderedPayload{Entries: entries})
	})
	opts.OnRemove = func(m feed.Message) {
		bus.PublishMessageRemoved(MessageRemovedPayload{Message: m})
	}
	opts.OnClick = func(m feed.Message) {
		bus.PublishMessageClicked(MessageClickedPayload{Message: m})
	}
	return opts
}

// Sink receives removal and click callbacks. The notification bus in the TUI
// package satisfies it.
type Sink interface {
	Removed(feed.Message)
	Clicked(feed.Message)
}

// SinkRouter forwards message events from the bus to a Sink.
type SinkRouter struct {
	bus  *EventBus
	sink Sink
}

// NewSinkRouter constructs a router from bus to sink.
func NewSinkRouter(bus *EventBus, sink Sink) *SinkRouter {
	return &SinkRouter{bus: bus, sink: sink}
}

// Register subscribes the router. A nil router, bus or sink is a no-op.
func (r *SinkRouter) Register() {
	if r == nil || r.bus == nil || r.sink == nil {
		return
	}

	r.bus.SubscribeMessageRemoved(func(p MessageRemovedPayload) {
		r.sink.Removed(p.Message)
	})

	r.bus.SubscribeMessageClicked(func(p MessageClickedPayload) {
		r.sink.Clicked(p.Message)
	})
}
