package feedtest

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// Recorder captures every renderer frame and sink callback of a controller.
type Recorder struct {
	Frames  [][]feed.Entry
	Removed []feed.Message
	Clicked []feed.Message
}

// Render implements feed.Renderer.
func (r *Recorder) Render(entries []feed.Entry) {
	r.Frames = append(r.Frames, entries)
}

// OnRemove records a removal. Use as feed.Options.OnRemove.
func (r *Recorder) OnRemove(m feed.Message) {
	r.Removed = append(r.Removed, m)
}

// OnClick records a click. Use as feed.Options.OnClick.
func (r *Recorder) OnClick(m feed.Message) {
	r.Clicked = append(r.Clicked, m)
}

// LastFrame returns the most recent frame, or nil if nothing was rendered.
func (r *Recorder) LastFrame() []feed.Entry {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

// Options returns controller options wired to the recorder and clock.
func (r *Recorder) Options(clock *Clock) feed.Options {
	nop := zerolog.Nop()
	return feed.Options{
		Scheduler: clock,
		Logger:    &nop,
		Renderer:  r,
		OnRemove:  r.OnRemove,
		OnClick:   r.OnClick,
	}
}

// New returns a controller wired to a fresh clock and recorder.
func New() (*feed.Controller, *Clock, *Recorder) {
	clock := NewClock()
	rec := &Recorder{}
	return feed.New(rec.Options(clock)), clock, rec
}
