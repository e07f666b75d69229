package lamp

import (
	"testing"
	"time"

	"github.com/amp-labs/cyclekit/cycle"
	"github.com/stretchr/testify/assert"
)

func TestPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    *cycle.State
		name     string
		canister int
	}{
		{Red(), "red", 0},
		{Yellow(), "yellow", 1},
		{Green(), "green", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.state.Name)
		assert.Equal(t, tt.name, tt.state.Color)
		assert.Equal(t, tt.canister, tt.state.Canister)
		assert.Equal(t, cycle.KindSolid, tt.state.Kind)
		assert.Equal(t, DefaultDelay, tt.state.Delay)
	}

	assert.Equal(t, cycle.KindDark, Dark().Kind)
}

func TestPresetOptions(t *testing.T) {
	t.Parallel()

	s := Red(WithDelay(3*time.Second), WithCanister(2), WithColor("crimson"))

	assert.Equal(t, 3*time.Second, s.Delay)
	assert.Equal(t, 2, s.Canister)
	assert.Equal(t, "crimson", s.Color)
}

func TestSequences(t *testing.T) {
	t.Parallel()

	names := func(states []*cycle.State) []string {
		out := make([]string, len(states))
		for i, s := range states {
			out[i] = s.Name
		}

		return out
	}

	assert.Equal(t, []string{"red", "yellow", "green"}, names(RedYellowGreen()))
	assert.Equal(t, []string{"green", "yellow", "red"}, names(GreenYellowRed()))
	assert.NotSame(t, RedYellowGreen()[0], RedYellowGreen()[0], "each call builds fresh states")
}
