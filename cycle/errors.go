package cycle

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the root of every construction and
// configuration error; test for it with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

var (
	// ErrStateRequired indicates an empty state sequence.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrNilState indicates a nil entry in the state sequence.
	ErrNilState = errors.New("state is nil")
	// ErrNegativeDelay indicates a state with a delay below zero.
	ErrNegativeDelay = errors.New("delay must not be negative")
	// ErrInvalidCanister indicates a canister index outside the panel.
	ErrInvalidCanister = errors.New("invalid canister index")
	// ErrUnknownKind indicates an unrecognized state kind.
	ErrUnknownKind = errors.New("unknown state kind")
	// ErrConfigNameRequired indicates a configuration without a name.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrStateNameRequired indicates a configured state without a name.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrNoConfigLoader indicates that name-based loading was requested with no loader registered.
	ErrNoConfigLoader = errors.New("no config loader registered; use SetConfigLoader() or provide a file path")
)

var (
	// ErrStateNotMember indicates a transition to a state outside the cycle.
	ErrStateNotMember = errors.New("state is not part of the cycle")
	// ErrCancelled indicates use of a cancelled transitioner.
	ErrCancelled = errors.New("transitioner cancelled")
	// ErrRegistryClosed indicates use of a closed registry.
	ErrRegistryClosed = errors.New("registry closed")
)

// StateError wraps an error with the position and label of the state that caused it.
type StateError struct {
	Index int
	State string
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %d (%s): %v", e.Index, e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// invalid wraps err so that it matches both itself and ErrInvalidConfiguration.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
}
