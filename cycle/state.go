// Package cycle implements a cyclic state transitioner: a fixed, ordered ring
// of states where entering a state applies its effect and arms a single
// deferred transition to the next state after that state's delay.
package cycle

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a state is rendered by an Effect.
type Kind int

const (
	// KindSolid lights a single canister in a single color.
	KindSolid Kind = iota
	// KindDark lights nothing. Alternating it with a solid state yields a
	// flashing signal.
	KindDark
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindDark:
		return "dark"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String. The empty string means solid.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return KindSolid, nil
	case "dark", "off":
		return KindDark, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// State is one phase of a cycle. States are compared by identity: two
// distinct *State values with identical fields occupy different positions.
// A State must not be modified once it has been handed to a Transitioner.
type State struct {
	Name     string
	Kind     Kind
	Canister int
	Color    string
	Delay    time.Duration
}

// Label returns the state's name, or a positional fallback for unnamed states.
func (s *State) Label(index int) string {
	if s != nil && s.Name != "" {
		return s.Name
	}

	return fmt.Sprintf("state-%d", index)
}

func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}

	if s.Kind == KindDark {
		return fmt.Sprintf("%s(dark, %s)", s.Name, s.Delay)
	}

	return fmt.Sprintf("%s(%s #%d, %s)", s.Name, s.Color, s.Canister, s.Delay)
}

// validate checks the invariants a Transitioner relies on.
func (s *State) validate() error {
	if s == nil {
		return ErrNilState
	}

	if s.Delay < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDelay, s.Delay)
	}

	switch s.Kind {
	case KindSolid:
		if s.Canister < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCanister, s.Canister)
		}
	case KindDark:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}

	return nil
}
