package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) DeleteBefore(_ context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.cutoffs = append(f.cutoffs, t)
	return 2, nil
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestOnce(t *testing.T) {
	p := &fakePruner{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	n := Once(context.Background(), p, now, time.Hour)

	assert.Equal(t, int64(2), n)
	assert.Equal(t, []time.Time{now.Add(-time.Hour)}, p.cutoffs)
}

func TestOnce_error(t *testing.T) {
	p := &fakePruner{err: assert.AnError}
	assert.Zero(t, Once(context.Background(), p, time.Now(), time.Hour))
}

func TestStart_ticks_until_cancelled(t *testing.T) {
	p := &fakePruner{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, p, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStart_disabled(t *testing.T) {
	p := &fakePruner{}

	// Returns immediately without a cancelled context.
	Start(context.Background(), p, time.Millisecond, 0)
	Start(context.Background(), p, 0, time.Hour)

	assert.Zero(t, p.calls())
}
