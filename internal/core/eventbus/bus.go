package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
	flushed chan struct{}
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine, in publish order. Publish never blocks: when the buffer is full
// the event is dropped and OnDrop hooks run.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with room for buffer undelivered events.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled. It blocks.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			if env.flushed != nil {
				close(env.flushed)
				continue
			}
			bus.dispatch(env)
		}
	}
}

// Flush waits until every event published before the call has been
// delivered.
func (bus *EventBus) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case bus.ch <- envelope{flushed: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := bus.subs[env.event]
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.call(env, fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

// PublishFeedRendered publishes a feed.rendered event.
func (bus *EventBus) PublishFeedRendered(p FeedRenderedPayload) {
	bus.send(EventFeedRendered, p)
}

// SubscribeFeedRendered registers fn for feed.rendered events.
func (bus *EventBus) SubscribeFeedRendered(fn func(FeedRenderedPayload)) {
	bus.subscribe(EventFeedRendered, func(p any) { fn(p.(FeedRenderedPayload)) })
}

// PublishMessageRemoved publishes a message.removed event.
func (bus *EventBus) PublishMessageRemoved(p MessageRemovedPayload) {
	bus.send(EventMessageRemoved, p)
}

// SubscribeMessageRemoved registers fn for message.removed events.
func (bus *EventBus) SubscribeMessageRemoved(fn func(MessageRemovedPayload)) {
	bus.subscribe(EventMessageRemoved, func(p any) { fn(p.(MessageRemovedPayload)) })
}

// PublishMessageClicked publishes a message.clicked event.
func (bus *EventBus) PublishMessageClicked(p MessageClickedPayload) {
	bus.send(EventMessageClicked, p)
}

// SubscribeMessageClicked registers fn for message.clicked events.
func (bus *EventBus) SubscribeMessageClicked(fn func(MessageClickedPayload)) {
	bus.subscribe(EventMessageClicked, func(p any) { fn(p.(MessageClickedPayload)) })
}

// PublishScriptStep publishes a script.step event.
func (bus *EventBus) PublishScriptStep(p ScriptStepPayload) {
	bus.send(EventScriptStep, p)
}

// SubscribeScriptStep registers fn for script.step events.
func (bus *EventBus) SubscribeScriptStep(fn func(ScriptStepPayload)) {
	bus.subscribe(EventScriptStep, func(p any) { fn(p.(ScriptStepPayload)) })
}
