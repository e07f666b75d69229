package cycle

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amp-labs/cyclekit/scheduler"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
)

// Reasons a deferred callback is discarded instead of applied.
const (
	reasonSuperseded = "superseded"
	reasonCancelled  = "cancelled"
	reasonDestroyed  = "destroyed"
)

// Transitioner walks a fixed ring of states. Each transition applies the
// state's effect and arms exactly one deferred transition to its successor.
// A transitioner belongs to the Registry that created it; deferred callbacks
// find it again by Handle.
type Transitioner struct {
	handle   uuid.UUID
	name     string
	registry *Registry
	states   []*State
	effect   Effect
	hooks    []TransitionHook
	logger   Logger

	// mu serializes transitions, deferred callbacks and cancellation.
	mu        sync.Mutex
	pending   scheduler.Timer
	enteredAt time.Time
	started   bool

	current     atomic.Pointer[State]
	generation  atomic.Uint64
	transitions atomic.Uint64
	cancelled   atomic.Bool
}

// New creates a transitioner in a registry of its own. Use a shared Registry
// when several transitioners run on one scheduler.
func New(sched scheduler.Scheduler, states []*State, opts ...Option) (*Transitioner, error) {
	return NewRegistry(sched).New(states, opts...)
}

// Handle returns the identifier the owning registry knows this transitioner by.
func (t *Transitioner) Handle() uuid.UUID {
	return t.handle
}

// Name returns the name given with WithName, or a generated one.
func (t *Transitioner) Name() string {
	return t.name
}

// Current returns the current state. It is always an element of States().
func (t *Transitioner) Current() *State {
	return t.current.Load()
}

// States returns the configured sequence. The slice is a copy; the states
// themselves are shared and must not be modified.
func (t *Transitioner) States() []*State {
	return slices.Clone(t.states)
}

// Transitions returns how many transitions have been applied.
func (t *Transitioner) Transitions() uint64 {
	return t.transitions.Load()
}

// Cancelled reports whether Cancel has been called.
func (t *Transitioner) Cancelled() bool {
	return t.cancelled.Load()
}

// Successor returns the state following s in the cycle. The last state wraps
// to the first; a state that is not part of the cycle also maps to the first.
func (t *Transitioner) Successor(s *State) *State {
	return t.states[t.successorIndex(t.indexOf(s))]
}

// Next returns the successor of the current state.
func (t *Transitioner) Next() *State {
	return t.Successor(t.Current())
}

// Start enters the current state, which for a new transitioner is the first
// one, and begins the cycle.
func (t *Transitioner) Start(ctx context.Context) error {
	return t.TransitionTo(ctx, t.Current())
}

// TransitionTo makes state current: the pending deferred transition is
// invalidated, the effect is reset and re-applied for state, and a new
// deferred transition to state's successor is armed for state.Delay.
func (t *Transitioner) TransitionTo(ctx context.Context, state *State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled.Load() {
		return ErrCancelled
	}

	idx := t.indexOf(state)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrStateNotMember, state)
	}

	t.transitionLocked(ctx, idx)

	return nil
}

// Cancel stops the cycle. The pending deferred transition, if any, is stopped
// and invalidated so that it cannot fire against this transitioner, and every
// later TransitionTo fails with ErrCancelled. Cancel is idempotent.
func (t *Transitioner) Cancel(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled.Swap(true) {
		return
	}

	t.generation.Inc()

	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}

	t.logger.Cancelled(ctx, t.name, t.labelOf(t.Current()))
}

// transitionLocked performs the transition to t.states[idx]. t.mu must be held.
func (t *Transitioner) transitionLocked(ctx context.Context, idx int) {
	state := t.states[idx]
	label := state.Label(idx)

	var prev *State

	fromLabel := "none"
	if t.started {
		prev = t.Current()
		fromLabel = t.labelOf(prev)
	}

	ctx, span := startTransitionSpan(ctx, t, fromLabel, label)
	defer span.End()

	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}

	now := time.Now()
	if t.started {
		stateDwellSeconds.WithLabelValues(sanitizeCycle(t.name), fromLabel).Observe(now.Sub(t.enteredAt).Seconds())
	}

	t.effect.Reset(ctx, t)
	t.current.Store(state)
	t.enteredAt = now
	t.started = true
	t.effect.Apply(ctx, t, state)

	nextIdx := t.successorIndex(idx)
	next := t.states[nextIdx]
	gen := t.arm(ctx, state, nextIdx)

	count := t.transitions.Inc()

	span.SetAttributes(
		attribute.Int64("generation", int64(gen)), //nolint:gosec // counter never exceeds int64
		attribute.Int64("delay_ms", state.Delay.Milliseconds()),
		attribute.String("next_state", t.labelOf(next)),
	)
	span.SetStatus(codes.Ok, "applied")

	transitionsTotal.WithLabelValues(sanitizeCycle(t.name), fromLabel, label).Inc()

	t.logger.TransitionExecuted(ctx, t.name, fromLabel, label, count)
	t.logger.StateEntered(ctx, t.name, label, state.Delay)

	for _, hook := range t.hooks {
		hook(ctx, t, prev, state)
	}
}

// arm schedules the deferred transition to t.states[nextIdx] and returns its
// generation. The callback holds no reference to t: it resolves the handle
// through the registry, so a destroyed transitioner is simply not found.
// The position is captured rather than the state so that a state listed
// twice keeps its place in the cycle.
func (t *Transitioner) arm(ctx context.Context, state *State, nextIdx int) uint64 {
	gen := t.generation.Inc()

	registry, handle, name := t.registry, t.handle, t.name
	nextLabel := t.states[nextIdx].Label(nextIdx)
	detached := context.WithoutCancel(ctx)

	t.pending = registry.sched.After(state.Delay, func() {
		target, ok := registry.Lookup(handle)
		if !ok {
			callbackDropped(detached, registry.logger, name, nextLabel, reasonDestroyed)

			return
		}

		target.fire(detached, gen, nextIdx)
	})

	return gen
}

// fire is the body of a deferred callback.
func (t *Transitioner) fire(ctx context.Context, gen uint64, idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	label := t.states[idx].Label(idx)

	switch {
	case t.cancelled.Load():
		callbackDropped(ctx, t.logger, t.name, label, reasonCancelled)
	case gen != t.generation.Load():
		callbackDropped(ctx, t.logger, t.name, label, reasonSuperseded)
	default:
		t.transitionLocked(ctx, idx)
	}
}

// indexOf finds s by identity. It returns -1 for states outside the cycle.
func (t *Transitioner) indexOf(s *State) int {
	if s == nil {
		return -1
	}

	for i, candidate := range t.states {
		if candidate == s {
			return i
		}
	}

	return -1
}

func (t *Transitioner) successorIndex(idx int) int {
	if idx < 0 || idx+1 >= len(t.states) {
		return 0
	}

	return idx + 1
}

func (t *Transitioner) labelOf(s *State) string {
	return s.Label(t.indexOf(s))
}
