package lamp

import (
	"time"

	"github.com/amp-labs/cyclekit/cycle"
)

// DefaultDelay is how long each preset state stays lit.
const DefaultDelay = time.Second

// StateOption overrides a preset's defaults.
type StateOption func(*cycle.State)

func WithDelay(d time.Duration) StateOption {
	return func(s *cycle.State) {
		s.Delay = d
	}
}

func WithCanister(index int) StateOption {
	return func(s *cycle.State) {
		s.Canister = index
	}
}

func WithColor(color string) StateOption {
	return func(s *cycle.State) {
		s.Color = color
	}
}

func preset(name string, canister int, opts []StateOption) *cycle.State {
	s := &cycle.State{
		Name:     name,
		Kind:     cycle.KindSolid,
		Canister: canister,
		Color:    name,
		Delay:    DefaultDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Red lights the top canister.
func Red(opts ...StateOption) *cycle.State {
	return preset("red", 0, opts)
}

// Yellow lights the middle canister.
func Yellow(opts ...StateOption) *cycle.State {
	return preset("yellow", 1, opts)
}

// Green lights the bottom canister.
func Green(opts ...StateOption) *cycle.State {
	return preset("green", 2, opts) //nolint:mnd
}

// Dark lights nothing.
func Dark(opts ...StateOption) *cycle.State {
	s := &cycle.State{Name: "dark", Kind: cycle.KindDark, Delay: DefaultDelay}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RedYellowGreen returns fresh red, yellow and green states in that order.
func RedYellowGreen() []*cycle.State {
	return []*cycle.State{Red(), Yellow(), Green()}
}

// GreenYellowRed returns fresh green, yellow and red states in that order.
func GreenYellowRed() []*cycle.State {
	return []*cycle.State{Green(), Yellow(), Red()}
}
