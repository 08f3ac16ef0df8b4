package play

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/eventbus"
	"github.com/colonyops/msgfeed/internal/core/eventbus/testbus"
	"github.com/colonyops/msgfeed/internal/core/feed"
)

func newPlayer(t *testing.T, drain bool) (*Player, *testbus.Bus) {
	t.Helper()
	tb := testbus.New(t)
	return New(Options{Bus: tb.EventBus, Drain: drain, Logger: zerolog.Nop()}), tb
}

func frames(tb *testbus.Bus) [][]feed.Entry {
	var out [][]feed.Entry
	for _, p := range tb.Of(eventbus.EventFeedRendered) {
		out = append(out, p.(eventbus.FeedRenderedPayload).Entries)
	}
	return out
}

func removedIDs(tb *testbus.Bus) []string {
	var out []string
	for _, p := range tb.Of(eventbus.EventMessageRemoved) {
		out = append(out, p.(eventbus.MessageRemovedPayload).Message.ID)
	}
	return out
}

func TestPlayer_Run_steps(t *testing.T) {
	p, tb := newPlayer(t, false)

	script := Script{Steps: []Step{
		{Show: []feed.Message{
			{ID: "a", Summary: "first", Sticky: true},
			{ID: "b", Summary: "second", Sticky: true},
			{ID: "upload-1", Summary: "third", Sticky: true},
		}},
		{Remove: []Target{{ID: "b"}, {ID: "missing"}}},
		{Click: &Target{Seq: 1}},
		{RemoveMatching: "upload-*"},
		{Replace: []feed.Message{{ID: "r", Summary: "replaced", Sticky: true}}},
	}}

	res, err := p.Run(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Steps)
	require.Len(t, res.Remaining, 1)
	assert.Equal(t, "r", res.Remaining[0].Message.ID)
	assert.Equal(t, int64(4), res.Remaining[0].Seq)

	got := frames(tb)
	require.Len(t, got, 4, "show, remove, remove_matching and replace render once each")
	assert.Len(t, got[0], 3)
	assert.Len(t, got[1], 2)
	assert.Len(t, got[2], 1)
	assert.Len(t, got[3], 1)

	assert.Equal(t, []string{"b", "upload-1"}, removedIDs(tb), "replace drops old entries silently")

	clicked := tb.Of(eventbus.EventMessageClicked)
	require.Len(t, clicked, 1)
	assert.Equal(t, "a", clicked[0].(eventbus.MessageClickedPayload).Message.ID)

	steps := tb.Of(eventbus.EventScriptStep)
	require.Len(t, steps, 5)
	assert.Equal(t, eventbus.ScriptStepPayload{Index: 3, Action: ActionRemoveMatching}, steps[3])
}

func TestPlayer_Run_step_precedes_its_frame(t *testing.T) {
	p, tb := newPlayer(t, false)

	_, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{{Summary: "x", Sticky: true}}},
		{Clear: true},
	}})
	require.NoError(t, err)

	var order []eventbus.Event
	for _, e := range tb.Events() {
		order = append(order, e.Event)
	}
	assert.Equal(t, []eventbus.Event{
		eventbus.EventScriptStep,
		eventbus.EventFeedRendered,
		eventbus.EventScriptStep,
		eventbus.EventFeedRendered,
	}, order)
}

func TestPlayer_Run_remove_matching_duplicates(t *testing.T) {
	p, tb := newPlayer(t, false)

	res, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{
			{ID: "job", Sticky: true},
			{ID: "job", Sticky: true},
			{Summary: "anonymous", Sticky: true},
		}},
		{RemoveMatching: "*"},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"job", "job"}, removedIDs(tb))
	require.Len(t, res.Remaining, 1, "entries without a caller id never match")
	assert.Equal(t, "anonymous", res.Remaining[0].Message.Summary)
}

func TestPlayer_Run_wait_lets_timers_expire(t *testing.T) {
	p, tb := newPlayer(t, false)

	res, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{{ID: "short", Life: 20 * time.Millisecond}}},
		{Wait: 150 * time.Millisecond},
	}})
	require.NoError(t, err)

	assert.Empty(t, res.Remaining)
	assert.Equal(t, []string{"short"}, removedIDs(tb))
	assert.Len(t, frames(tb), 2)
}

func TestPlayer_Run_drain(t *testing.T) {
	p, tb := newPlayer(t, true)

	res, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{
			{ID: "one", Life: 20 * time.Millisecond},
			{ID: "two", Life: 40 * time.Millisecond},
			{ID: "pinned", Sticky: true},
		}},
	}})
	require.NoError(t, err)

	require.Len(t, res.Remaining, 1, "sticky entries survive draining")
	assert.Equal(t, "pinned", res.Remaining[0].Message.ID)
	assert.Equal(t, []string{"one", "two"}, removedIDs(tb))
}

func TestPlayer_Run_without_drain_leaves_timers(t *testing.T) {
	p, tb := newPlayer(t, false)

	res, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{{ID: "slow", Life: time.Hour}}},
	}})
	require.NoError(t, err)

	assert.Len(t, res.Remaining, 1)
	assert.Empty(t, removedIDs(tb))
}

func TestPlayer_Run_cancelled_wait(t *testing.T) {
	p, _ := newPlayer(t, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := p.Run(ctx, Script{Steps: []Step{
		{Clear: true},
		{Wait: time.Hour},
	}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorContains(t, err, "step 1 (wait)")
	assert.Equal(t, 1, res.Steps)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPlayer_Run_invalid_script(t *testing.T) {
	p, tb := newPlayer(t, false)

	_, err := p.Run(context.Background(), Script{Steps: []Step{{}}})
	require.Error(t, err)

	tb.Sync(t)
	assert.Empty(t, tb.Events(), "nothing runs when validation fails")
}

func TestPlayer_Run_nil_bus(t *testing.T) {
	_, err := New(Options{}).Run(context.Background(), Script{Steps: []Step{{Clear: true}}})
	assert.ErrorContains(t, err, "nil event bus")
}

func TestPlayer_Run_default_life(t *testing.T) {
	tb := testbus.New(t)
	p := New(Options{Bus: tb.EventBus, DefaultLife: 20 * time.Millisecond, Drain: true, Logger: zerolog.Nop()})

	start := time.Now()
	res, err := p.Run(context.Background(), Script{Steps: []Step{
		{Show: []feed.Message{{ID: "quick"}}},
	}})
	require.NoError(t, err)

	assert.Empty(t, res.Remaining)
	assert.Less(t, time.Since(start), feed.DefaultLife, "the configured default life replaces the 3s default")
}
