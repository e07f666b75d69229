// Package scheduler provides the deferred one-shot callback capability used by
// the cycle package. Scheduling is injected rather than global, so production
// code runs on a real-time Queue while tests drive a Manual clock.
package scheduler

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback has already fired or been stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks. Implementations invoke f at most once,
// approximately d after After was called, unless the returned Timer is stopped.
type Scheduler interface {
	After(d time.Duration, f func()) Timer
}

// Func adapts an ordinary function to the Scheduler interface.
type Func func(d time.Duration, f func()) Timer

func (fn Func) After(d time.Duration, f func()) Timer { //nolint:ireturn
	return fn(d, f)
}
