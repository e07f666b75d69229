package cycle

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"facette.io/natsort"
	"github.com/amp-labs/cyclekit/scheduler"
	"github.com/google/uuid"
)

// Registry owns a scheduler and the transitioners that run on it. Deferred
// callbacks look transitioners up by handle, so removing one from the registry
// is enough to make its outstanding callbacks inert.
type Registry struct {
	sched  scheduler.Scheduler
	logger Logger

	mu      sync.RWMutex
	entries map[uuid.UUID]*Transitioner
	seq     int
	closed  bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registry events and as the
// default for transitioners created without WithLogger.
func WithRegistryLogger(l Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry on sched.
func NewRegistry(sched scheduler.Scheduler, opts ...RegistryOption) *Registry {
	r := &Registry{
		sched:   sched,
		logger:  NewDefaultLogger(),
		entries: make(map[uuid.UUID]*Transitioner),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Option configures a Transitioner.
type Option func(*Transitioner)

// WithName names the transitioner in logs, metrics and spans.
func WithName(name string) Option {
	return func(t *Transitioner) {
		t.name = name
	}
}

// WithEffect sets the effect applied on every transition.
func WithEffect(e Effect) Option {
	return func(t *Transitioner) {
		if e != nil {
			t.effect = e
		}
	}
}

// WithLogger overrides the registry's logger for one transitioner.
func WithLogger(l Logger) Option {
	return func(t *Transitioner) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTransitionHook adds a hook called after every transition.
func WithTransitionHook(h TransitionHook) Option {
	return func(t *Transitioner) {
		if h != nil {
			t.hooks = append(t.hooks, h)
		}
	}
}

// New validates states and registers a transitioner over them. The current
// state is states[0]; nothing is applied or scheduled until Start. An empty
// sequence, a nil state or a negative delay fails with ErrInvalidConfiguration
// and registers nothing.
func (r *Registry) New(states []*State, opts ...Option) (*Transitioner, error) {
	if len(states) == 0 {
		return nil, invalid(ErrStateRequired)
	}

	for i, s := range states {
		if err := s.validate(); err != nil {
			return nil, invalid(&StateError{Index: i, State: s.Label(i), Err: err})
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	r.seq++

	t := &Transitioner{
		handle:   uuid.New(),
		name:     fmt.Sprintf("cycle-%d", r.seq),
		registry: r,
		states:   slices.Clone(states),
		effect:   EffectFuncs{},
		logger:   r.logger,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.current.Store(t.states[0])

	r.entries[t.handle] = t
	activeTransitioners.Inc()

	return t, nil
}

// Lookup returns the live transitioner registered under handle.
func (r *Registry) Lookup(handle uuid.UUID) (*Transitioner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.entries[handle]

	return t, ok
}

// Destroy cancels the transitioner registered under handle and forgets it.
// It returns false if no such transitioner exists.
func (r *Registry) Destroy(ctx context.Context, handle uuid.UUID) bool {
	r.mu.Lock()
	t, ok := r.entries[handle]
	delete(r.entries, handle)
	r.mu.Unlock()

	if !ok {
		return false
	}

	activeTransitioners.Dec()
	t.Cancel(ctx)

	return true
}

// Len returns the number of live transitioners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Names returns the names of live transitioners in natural order, so that
// cycle-2 sorts before cycle-10.
func (r *Registry) Names() []string {
	r.mu.RLock()

	names := make([]string, 0, len(r.entries))
	for _, t := range r.entries {
		names = append(names, t.name)
	}

	r.mu.RUnlock()

	natsort.Sort(names)

	return names
}

// Close destroys every transitioner and rejects further registrations.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	r.closed = true
	entries := r.entries
	r.entries = make(map[uuid.UUID]*Transitioner)
	r.mu.Unlock()

	for _, t := range entries {
		activeTransitioners.Dec()
		t.Cancel(ctx)
	}
}
