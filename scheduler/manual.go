package scheduler

import (
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing fires until the
// owner calls Advance or RunNext, and callbacks then run synchronously on the
// caller's goroutine. It exists so that timing behavior can be tested
// deterministically.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	owner *Manual
	at    time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// NewManual creates a Manual scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, f func()) Timer { //nolint:ireturn
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}

	m.seq++

	timer := &manualTimer{
		owner: m,
		at:    m.now + d,
		seq:   m.seq,
		fn:    f,
	}

	m.pending = append(m.pending, timer)

	return timer
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true
	t.owner.remove(t)

	return true
}

// Now returns the virtual time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pending)
}

// Advance moves the clock forward by d, firing every timer that comes due on
// the way in deadline order. Timers armed by a callback fire in the same call
// if their deadline also falls inside the window, except those armed with
// zero delay for the deadline currently firing: they stay pending, overdue,
// until the next Advance or RunNext. That keeps a chain of zero-delay timers
// from running forever. It returns the number of callbacks that ran.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	var (
		fired   int
		stepAt  time.Duration = -1
		barrier uint64
	)

	// admit runs with m.mu held.
	admit := func(next *manualTimer) bool {
		if next.at != stepAt {
			stepAt = next.at
			barrier = m.seq

			return true
		}

		return next.seq <= barrier
	}

	for {
		timer := m.popDue(target, admit)
		if timer == nil {
			break
		}

		timer.fn()

		fired++
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()

	return fired
}

// RunNext jumps the clock to the earliest pending deadline and fires that
// single timer. It returns false if nothing is pending.
func (m *Manual) RunNext() bool {
	timer := m.popDue(-1, nil)
	if timer == nil {
		return false
	}

	timer.fn()

	return true
}

// popDue removes and returns the earliest timer due at or before limit, or
// the earliest timer overall when limit is negative. A non-nil admit can
// veto the earliest timer, in which case nothing is returned.
func (m *Manual) popDue(limit time.Duration, admit func(*manualTimer) bool) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return nil
	}

	next := slices.MinFunc(m.pending, func(a, b *manualTimer) int {
		if a.at != b.at {
			if a.at < b.at {
				return -1
			}

			return 1
		}

		if a.seq < b.seq {
			return -1
		}

		return 1
	})

	if limit >= 0 && next.at > limit {
		return nil
	}

	if admit != nil && !admit(next) {
		return nil
	}

	next.done = true
	m.remove(next)

	if next.at > m.now {
		m.now = next.at
	}

	return next
}

// remove must be called with m.mu held.
func (m *Manual) remove(t *manualTimer) {
	m.pending = slices.DeleteFunc(m.pending, func(other *manualTimer) bool {
		return other == t
	})
}
