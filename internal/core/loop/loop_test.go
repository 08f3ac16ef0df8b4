package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()

	l := New(16, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l
}

func TestLoop_Do_runs_in_order(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	var got []int
	for i := range 5 {
		require.NoError(t, l.Do(ctx, func() { got = append(got, i) }))
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_AfterFunc_fires_on_loop(t *testing.T) {
	l := startLoop(t)

	var mu sync.Mutex
	fired := false
	l.AfterFunc(10*time.Millisecond, func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired
	}, time.Second, 5*time.Millisecond)
}

func TestLoop_AfterFunc_stop_prevents_fire(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	fired := make(chan struct{}, 1)
	var tm feed.Timer
	require.NoError(t, l.Do(ctx, func() {
		tm = l.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
	}))

	require.NoError(t, l.Do(ctx, func() {
		assert.True(t, tm.Stop())
		assert.False(t, tm.Stop())
	}))

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestLoop_AfterFunc_stop_after_delivery_queued(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	fired := false
	var tm feed.Timer

	// Block the loop so the timer's delivery queues behind this function,
	// then stop the timer before the delivery runs.
	require.NoError(t, l.Do(ctx, func() {
		tm = l.AfterFunc(time.Millisecond, func() { fired = true })
		time.Sleep(30 * time.Millisecond)
		assert.True(t, tm.Stop())
	}))

	// Flush the queue.
	require.NoError(t, l.Do(ctx, func() {}))
	require.NoError(t, l.Do(ctx, func() { assert.False(t, fired) }))
}

func TestLoop_recovers_panics(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	require.NoError(t, l.Do(ctx, func() { panic("boom") }))

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_Post_after_stop(t *testing.T) {
	l := New(1, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
}

func TestLoop_drives_controller(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	removed := make(chan feed.Message, 1)
	nop := zerolog.Nop()

	var c *feed.Controller
	require.NoError(t, l.Do(ctx, func() {
		c = feed.New(feed.Options{
			Scheduler: l,
			OnRemove:  func(m feed.Message) { removed <- m },
			Logger:    &nop,
		})
		c.Show(feed.Message{Summary: "tick", Life: 15 * time.Millisecond})
	}))

	select {
	case m := <-removed:
		assert.Equal(t, "tick", m.Summary)
	case <-time.After(time.Second):
		t.Fatal("message did not expire")
	}

	var n int
	require.NoError(t, l.Do(ctx, func() { n = c.Len() }))
	assert.Equal(t, 0, n)
}
