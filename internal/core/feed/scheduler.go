package feed

import "time"

// Timer is a cancellable scheduled action.
type Timer interface {
	// Stop cancels the action. It returns true if the call prevented the
	// action from running and false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs actions after a delay. Implementations must run fn on the
// same execution context that drives the Controller.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Renderer receives the full feed after every change. The slice is a copy
// owned by the renderer.
type Renderer interface {
	Render(entries []Entry)
}

// RenderFunc adapts a function to a Renderer.
type RenderFunc func(entries []Entry)

func (f RenderFunc) Render(entries []Entry) { f(entries) }
