package play

import (
	"context"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/msgfeed/internal/core/eventbus"
	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/logging"
	"github.com/colonyops/msgfeed/internal/core/loop"
)

const drainPoll = 10 * time.Millisecond

// Options configures a Player.
type Options struct {
	// Bus receives every frame, sink event and step. It must be started by
	// the caller.
	Bus *eventbus.EventBus
	// DefaultLife is passed to the controller. Zero means feed.DefaultLife.
	DefaultLife time.Duration
	// Drain keeps the player running after the last step until every
	// expiry timer has fired.
	Drain  bool
	Logger zerolog.Logger
}

// Result summarises a finished run.
type Result struct {
	Steps     int
	Remaining []feed.Entry
}

// Player runs scripts against a fresh controller per run.
type Player struct {
	opts Options
}

// New creates a Player.
func New(opts Options) *Player {
	return &Player{opts: opts}
}

// Run validates and executes script. Every controller call happens on a
// private loop.Loop, so expiry timers fire on the same goroutine as the
// steps. Run returns after the last step (or after draining) once all
// events have been delivered on the bus.
func (p *Player) Run(ctx context.Context, script Script) (Result, error) {
	if p.opts.Bus == nil {
		return Result{}, fmt.Errorf("play: nil event bus")
	}
	if err := script.Validate(); err != nil {
		return Result{}, err
	}

	ctx = logging.WithScript(ctx, script.Name)
	logger := logging.Contextual(p.opts.Logger)

	lp := loop.New(64, p.opts.Logger)
	loopCtx, cancel := context.WithCancel(ctx)
	go func() { _ = lp.Run(loopCtx) }()
	defer func() {
		cancel()
		<-lp.Done()
	}()

	var ctrl *feed.Controller
	err := lp.Do(ctx, func() {
		ctrl = feed.New(p.opts.Bus.Attach(feed.Options{
			Scheduler:   lp,
			DefaultLife: p.opts.DefaultLife,
			Logger:      &p.opts.Logger,
		}))
	})
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, step := range script.Steps {
		stepCtx := logging.WithStep(ctx, i)
		action := step.Action()

		p.opts.Bus.PublishScriptStep(eventbus.ScriptStepPayload{Index: i, Action: action})
		logger.Debug().Ctx(stepCtx).Str("action", action).Msg("running step")

		if err := p.runStep(stepCtx, lp, ctrl, step); err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i, action, err)
		}
		res.Steps++
	}

	if p.opts.Drain {
		if err := p.drain(ctx, lp, ctrl); err != nil {
			return res, fmt.Errorf("drain: %w", err)
		}
	}

	err = lp.Do(ctx, func() { res.Remaining = ctrl.Entries() })
	if err != nil {
		return res, err
	}

	if err := p.opts.Bus.Flush(ctx); err != nil {
		return res, fmt.Errorf("flush events: %w", err)
	}
	return res, nil
}

func (p *Player) runStep(ctx context.Context, lp *loop.Loop, ctrl *feed.Controller, step Step) error {
	switch step.Action() {
	case ActionWait:
		return sleep(ctx, step.Wait)
	case ActionShow:
		return lp.Do(ctx, func() { ctrl.Show(step.Show...) })
	case ActionReplace:
		return lp.Do(ctx, func() { ctrl.Replace(step.Replace...) })
	case ActionClear:
		return lp.Do(ctx, ctrl.Clear)
	case ActionRemove:
		refs := make([]feed.Ref, len(step.Remove))
		for i, t := range step.Remove {
			refs[i] = t.Ref()
		}
		return lp.Do(ctx, func() { ctrl.Remove(refs...) })
	case ActionRemoveMatching:
		return lp.Do(ctx, func() { ctrl.Remove(matching(ctrl.Entries(), step.RemoveMatching)...) })
	case ActionClick:
		return lp.Do(ctx, func() { ctrl.Click(step.Click.Ref()) })
	default:
		return fmt.Errorf("unknown action")
	}
}

// matching returns refs for every entry whose caller id matches pattern.
// Entries without a caller id never match.
func matching(entries []feed.Entry, pattern string) []feed.Ref {
	var refs []feed.Ref
	for _, e := range entries {
		if e.Message.ID == "" {
			continue
		}
		if ok, _ := doublestar.Match(pattern, e.Message.ID); ok {
			// BySeq so duplicates of the same caller id are each removed once.
			refs = append(refs, feed.BySeq(e.Seq))
		}
	}
	return refs
}

func (p *Player) drain(ctx context.Context, lp *loop.Loop, ctrl *feed.Controller) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		var pending int
		if err := lp.Do(ctx, func() { pending = ctrl.Pending() }); err != nil {
			return err
		}
		if pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
