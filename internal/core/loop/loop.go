// Package loop provides a single-goroutine run queue that serves as the
// execution context for a feed.Controller outside of the TUI.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("loop stopped")

// Loop runs posted functions one at a time, in post order, on the goroutine
// that called Run. Timers created with AfterFunc deliver their callbacks
// through the same queue.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	once   sync.Once
	logger zerolog.Logger
}

var _ feed.Scheduler = (*Loop)(nil)

// New creates a loop whose queue holds up to buffer pending functions before
// Post blocks.
func New(buffer int, logger zerolog.Logger) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes posted functions until ctx is cancelled. It returns ctx.Err().
// Run must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

// Post queues fn to run on the loop. It returns false if the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	ok := l.Post(func() {
		defer close(finished)
		fn()
	})
	if !ok {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// AfterFunc implements feed.Scheduler. fn runs on the loop after d unless the
// returned timer is stopped first.
func (l *Loop) AfterFunc(d time.Duration, fn func()) feed.Timer {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have been called after the timer fired but before
			// this function reached the front of the queue.
			if !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Msg("loop function panicked")
		}
	}()
	fn()
}

type timer struct {
	t *time.Timer
	// fired is set once by whichever of Stop or the delivered callback runs
	// first.
	fired atomic.Bool
}

func (t *timer) Stop() bool {
	t.t.Stop()
	return t.fired.CompareAndSwap(false, true)
}
