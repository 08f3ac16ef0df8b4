// Package sweep trims old feed history in the background.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Pruner deletes history recorded before a cutoff.
type Pruner interface {
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}

// Start deletes events older than retention every interval until ctx is
// cancelled. It blocks. A zero retention or interval disables the sweep.
func Start(ctx context.Context, store Pruner, interval, retention time.Duration) {
	if retention <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			Once(ctx, store, now, retention)
		}
	}
}

// Once runs a single sweep relative to now and returns how many events were
// removed.
func Once(ctx context.Context, store Pruner, now time.Time, retention time.Duration) int64 {
	n, err := store.DeleteBefore(ctx, now.Add(-retention))
	if err != nil {
		log.Debug().Err(err).Msg("history sweep failed")
		return 0
	}
	if n > 0 {
		log.Debug().Int64("deleted", n).Msg("history sweep")
	}
	return n
}
