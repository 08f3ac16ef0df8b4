// Package feedtest provides a manual clock and recorders for testing code
// that drives a feed.Controller.
package feedtest

import (
	"sort"
	"time"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// Clock is a feed.Scheduler whose time only moves when Advance is called.
// Timers fire synchronously inside Advance, on the caller's goroutine.
type Clock struct {
	now    time.Duration
	armed  int
	timers []*timer
}

var _ feed.Scheduler = (*Clock)(nil)

type timer struct {
	deadline time.Duration
	order    int
	fn       func()
	done     bool
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// AfterFunc implements feed.Scheduler.
func (c *Clock) AfterFunc(d time.Duration, fn func()) feed.Timer {
	c.armed++
	t := &timer{deadline: c.now + d, order: c.armed, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the elapsed time since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by d, firing every timer whose deadline is
// reached in deadline order. Timers armed by a firing callback fire in the
// same call if their deadline is also reached.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + d
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		next.done = true
		next.fn()
	}
	c.now = target
	c.compact()
}

// Pending returns the number of timers that are neither fired nor stopped.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (c *Clock) nextDue(target time.Duration) *timer {
	var due []*timer
	for _, t := range c.timers {
		if !t.done && t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].order < due[j].order
	})
	return due[0]
}

func (c *Clock) compact() {
	alive := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			alive = append(alive, t)
		}
	}
	c.timers = alive
}
