package cycle

import "context"

// Effect is the caller-supplied side of a transition. Reset clears whatever
// the previous state applied; Apply renders the new state. Both run while the
// transitioner holds its lock, so they may read t.Current() but must not call
// t.TransitionTo synchronously.
type Effect interface {
	Apply(ctx context.Context, t *Transitioner, s *State)
	Reset(ctx context.Context, t *Transitioner)
}

// EffectFuncs adapts plain functions to Effect. Nil fields are skipped.
type EffectFuncs struct {
	ApplyFunc func(ctx context.Context, t *Transitioner, s *State)
	ResetFunc func(ctx context.Context, t *Transitioner)
}

func (e EffectFuncs) Apply(ctx context.Context, t *Transitioner, s *State) {
	if e.ApplyFunc != nil {
		e.ApplyFunc(ctx, t, s)
	}
}

func (e EffectFuncs) Reset(ctx context.Context, t *Transitioner) {
	if e.ResetFunc != nil {
		e.ResetFunc(ctx, t)
	}
}

// TransitionHook observes a completed transition. from is nil for the first
// transition after Start. Hooks run under the transitioner's lock.
type TransitionHook func(ctx context.Context, t *Transitioner, from, to *State)
