// Package feed implements the transient message feed: an ordered list of
// notifications with identity, removal, and automatic expiry.
package feed

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/msgfeed/internal/core/logging"
)

// Options configures a Controller.
type Options struct {
	Scheduler Scheduler
	Renderer  Renderer
	// OnRemove is called once per entry removed by Remove or by expiry.
	// It is never called for Clear or Replace.
	OnRemove func(Message)
	// OnClick is called when Click matches an entry.
	OnClick func(Message)
	// DefaultLife is used for non-sticky messages without a positive Life.
	// Zero means DefaultLife.
	DefaultLife time.Duration
	Logger      *zerolog.Logger
}

// Controller owns the feed. It is not safe for concurrent use: all calls and
// all timer callbacks must run on the Scheduler's execution context.
type Controller struct {
	sched       Scheduler
	renderer    Renderer
	onRemove    func(Message)
	onClick     func(Message)
	defaultLife time.Duration
	log         zerolog.Logger

	entries []Entry
	timers  map[int64]Timer
	nextSeq int64
}

// New creates a Controller. It panics if opts.Scheduler is nil.
func New(opts Options) *Controller {
	if opts.Scheduler == nil {
		panic("feed: nil scheduler")
	}

	c := &Controller{
		sched:       opts.Scheduler,
		renderer:    opts.Renderer,
		onRemove:    opts.OnRemove,
		onClick:     opts.OnClick,
		defaultLife: opts.DefaultLife,
		timers:      make(map[int64]Timer),
	}

	if c.defaultLife <= 0 {
		c.defaultLife = DefaultLife
	}

	if opts.Logger != nil {
		c.log = *opts.Logger
	} else {
		c.log = logging.Component("feed")
	}

	return c
}

// Show appends msgs in order, schedules expiry for non-sticky ones, and
// renders once. It returns the created entries.
func (c *Controller) Show(msgs ...Message) []Entry {
	if len(msgs) == 0 {
		return nil
	}

	created := c.appendAll(msgs)
	c.render()
	return created
}

// Clear stops all pending expiries and empties the feed without calling
// OnRemove.
func (c *Controller) Clear() {
	c.reset()
	c.render()
}

// Replace clears the feed and shows msgs as a single transition; the
// renderer only sees the final state.
func (c *Controller) Replace(msgs ...Message) []Entry {
	c.reset()
	created := c.appendAll(msgs)
	c.render()
	return created
}

// Remove removes the first live entry matching each ref, calling OnRemove for
// each one. Refs that match nothing are ignored. It renders once if anything
// was removed and returns the number of entries removed.
func (c *Controller) Remove(refs ...Ref) int {
	removed := 0
	for _, ref := range refs {
		idx := c.find(ref)
		if idx < 0 {
			continue
		}
		c.removeAt(idx)
		removed++
	}

	if removed > 0 {
		c.render()
	}
	return removed
}

// Click forwards the matching entry's message to OnClick. The entry stays in
// the feed.
func (c *Controller) Click(ref Ref) bool {
	idx := c.find(ref)
	if idx < 0 {
		return false
	}

	if c.onClick != nil {
		c.onClick(c.entries[idx].Message)
	}
	return true
}

// Entries returns a copy of the live entries, oldest first.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the first entry matching ref.
func (c *Controller) Get(ref Ref) (Entry, bool) {
	idx := c.find(ref)
	if idx < 0 {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Len returns the number of live entries.
func (c *Controller) Len() int {
	return len(c.entries)
}

// Pending returns the number of outstanding expiry timers.
func (c *Controller) Pending() int {
	return len(c.timers)
}

func (c *Controller) appendAll(msgs []Message) []Entry {
	created := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		c.nextSeq++
		e := Entry{Seq: c.nextSeq, Message: m}
		c.entries = append(c.entries, e)
		created = append(created, e)

		if !m.Sticky {
			c.schedule(e)
		}
	}

	c.log.Debug().
		Int("count", len(msgs)).
		Int("total", len(c.entries)).
		Msg("messages shown")

	return created
}

func (c *Controller) schedule(e Entry) {
	life := e.Message.Life
	if life <= 0 {
		life = c.defaultLife
	}

	seq := e.Seq
	c.timers[seq] = c.sched.AfterFunc(life, func() {
		c.expire(seq)
	})
}

func (c *Controller) expire(seq int64) {
	// The timer has fired; its slot is no longer outstanding.
	delete(c.timers, seq)

	idx := c.find(BySeq(seq))
	if idx < 0 {
		return
	}

	c.log.Debug().Int64("seq", seq).Msg("message expired")
	c.removeAt(idx)
	c.render()
}

// removeAt stops the entry's timer, deletes it, and notifies OnRemove.
func (c *Controller) removeAt(idx int) {
	e := c.entries[idx]
	c.cancel(e.Seq)
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)

	if c.onRemove != nil {
		c.onRemove(e.Message)
	}
}

func (c *Controller) cancel(seq int64) {
	if t, ok := c.timers[seq]; ok {
		t.Stop()
		delete(c.timers, seq)
	}
}

func (c *Controller) reset() {
	for seq, t := range c.timers {
		t.Stop()
		delete(c.timers, seq)
	}
	c.entries = nil
}

// find returns the index of the first entry matching ref, or -1.
func (c *Controller) find(ref Ref) int {
	if ref.IsZero() {
		return -1
	}
	for i, e := range c.entries {
		if ref.Matches(e) {
			return i
		}
	}
	return -1
}

func (c *Controller) render() {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(c.Entries())
}
