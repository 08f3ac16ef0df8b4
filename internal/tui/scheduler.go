package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// timerFiredMsg is delivered by tea.Tick when a feed timer is due.
type timerFiredMsg struct {
	id uint64
}

// teaScheduler runs feed timers on the Bubble Tea update loop. Timers armed
// during an Update are collected and handed to the runtime by Flush.
type teaScheduler struct {
	next    uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

var _ feed.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: make(map[uint64]func())}
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) feed.Timer {
	s.next++
	id := s.next
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return &teaTimer{s: s, id: id}
}

// Fire runs the callback for id. Ticks for stopped timers still arrive and
// are ignored here.
func (s *teaScheduler) Fire(id uint64) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

// Flush returns the ticks armed since the last call.
func (s *teaScheduler) Flush() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// Pending reports timers that have neither fired nor been stopped.
func (s *teaScheduler) Pending() int {
	return len(s.pending)
}

type teaTimer struct {
	s  *teaScheduler
	id uint64
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}
