// Package eventbus provides a typed publish/subscribe event bus that carries
// feed activity to printers, loggers and the history sink.
package eventbus

import "github.com/colonyops/msgfeed/internal/core/feed"

// Event names a payload type on the bus.
type Event string

// Keep list sorted A-Z
const (
	EventFeedRendered   Event = "feed.rendered"
	EventMessageClicked Event = "message.clicked"
	EventMessageRemoved Event = "message.removed"
	EventScriptStep     Event = "script.step"
)

// Events lists every event name with its payload type.
var Events = map[Event]any{
	EventFeedRendered:   FeedRenderedPayload{},
	EventMessageClicked: MessageClickedPayload{},
	EventMessageRemoved: MessageRemovedPayload{},
	EventScriptStep:     ScriptStepPayload{},
}

// FeedRenderedPayload is emitted for every Renderer call.
type FeedRenderedPayload struct {
	Entries []feed.Entry
}

// MessageRemovedPayload is emitted when the controller reports a removal.
type MessageRemovedPayload struct {
	Message feed.Message
}

// MessageClickedPayload is emitted when a message is clicked.
type MessageClickedPayload struct {
	Message feed.Message
}

// ScriptStepPayload is emitted before the script player runs a step.
type ScriptStepPayload struct {
	Index  int
	Action string
}
