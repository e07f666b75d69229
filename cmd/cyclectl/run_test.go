package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/amp-labs/cyclekit/cycle"
	"github.com/amp-labs/cyclekit/presets"
	"github.com/amp-labs/cyclekit/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-preset", "night", "-transitions", "12", "-canisters", "4"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "night", opts.preset)
	assert.Equal(t, uint64(12), opts.transitions)
	assert.Equal(t, 4, opts.canisters)

	_, err = parseFlags([]string{"-preset", "night", "-config", "x.yaml"}, io.Discard)
	require.ErrorIs(t, err, ErrConflictingSources)

	_, err = parseFlags([]string{"-preset", "night", "-canisters", "-2"}, io.Discard)
	require.ErrorIs(t, err, ErrNegativeCanisters)

	opts, err = parseFlags([]string{"-canisters", "0"}, io.Discard)
	require.NoError(t, err)
	assert.Zero(t, opts.canisters)

	_, err = parseFlags([]string{"-transitions", "-1"}, io.Discard)
	require.Error(t, err)

	_, err = parseFlags([]string{"extra"}, io.Discard)
	require.Error(t, err)

	_, err = parseFlags([]string{"-h"}, io.Discard)
	require.ErrorIs(t, err, flag.ErrHelp)
}

// Uses the global config loader.
//
//nolint:paralleltest // Test modifies global config loader
func TestResolveConfig(t *testing.T) {
	cycle.SetConfigLoader(presets.Loader())
	t.Cleanup(func() { cycle.SetConfigLoader(nil) })

	noPick := func(string, ...string) (string, error) {
		return "", errors.New("unexpected prompt")
	}

	cfg, err := resolveConfig(&options{}, noPick)
	require.NoError(t, err)
	assert.Equal(t, defaultPreset, cfg.Name)

	cfg, err = resolveConfig(&options{preset: "night", canisters: 5}, noPick)
	require.NoError(t, err)
	assert.Equal(t, "night", cfg.Name)
	assert.Equal(t, 5, cfg.CanisterCount())

	var offered []string

	pick := func(_ string, choices ...string) (string, error) {
		offered = choices

		return "uk", nil
	}

	cfg, err = resolveConfig(&options{selectPreset: true}, pick)
	require.NoError(t, err)
	assert.Equal(t, "uk", cfg.Name)
	assert.Equal(t, presets.Loader().ListAvailable(), offered)

	_, err = resolveConfig(&options{preset: "standard", canisters: 2}, noPick)
	require.ErrorIs(t, err, cycle.ErrInvalidCanister)

	_, err = resolveConfig(&options{preset: "nope"}, noPick)
	require.ErrorIs(t, err, presets.ErrUnknownPreset)
}

//nolint:paralleltest // Test modifies global config loader
func TestRunListAndDiagram(t *testing.T) {
	cycle.SetConfigLoader(presets.Loader())
	t.Cleanup(func() { cycle.SetConfigLoader(nil) })

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), &options{list: true}, &out))
	assert.Equal(t, "night\nreverse\nstandard\nuk\n", out.String())

	out.Reset()

	require.NoError(t, run(t.Context(), &options{preset: "night", diagram: true}, &out))
	assert.Contains(t, out.String(), "stateDiagram-v2")
	assert.Contains(t, out.String(), "s1 --> s0 : 500ms")
}

func fastConfig() *cycle.Config {
	return &cycle.Config{
		Name: "fast",
		States: []cycle.StateConfig{
			{Name: "red", Canister: 0, Color: "red", Delay: time.Millisecond},
			{Name: "yellow", Canister: 1, Color: "yellow", Delay: time.Millisecond},
			{Name: "green", Canister: 2, Color: "green", Delay: time.Millisecond},
		},
	}
}

//nolint:paralleltest // Uses t.Setenv
func TestRunCycleStopsAtLimit(t *testing.T) {
	t.Setenv("CYCLEKIT_NO_BANNER", "true")

	queue := scheduler.NewQueue()
	t.Cleanup(queue.Stop)

	var out bytes.Buffer

	require.NoError(t, runCycle(t.Context(), fastConfig(), 4, &out, queue))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3+4)

	assert.Equal(t, "fast", lines[0])
	assert.Equal(t, "3 states, 3 canisters", lines[1])
	assert.Len(t, lines[2], 16)
	assert.Equal(t, "Red     (●)(○)(○)", lines[3])
	assert.Equal(t, "Yellow  (○)(●)(○)", lines[4])
	assert.Equal(t, "Green   (○)(○)(●)", lines[5])
	assert.Equal(t, "Red     (●)(○)(○)", lines[6])
}

//nolint:paralleltest // Uses t.Setenv
func TestRunCycleStopsWithContext(t *testing.T) {
	t.Setenv("CYCLEKIT_NO_BANNER", "true")

	clock := scheduler.NewManual()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var out bytes.Buffer

	require.NoError(t, runCycle(ctx, fastConfig(), 0, &out, clock))
	assert.Contains(t, out.String(), "Red     (●)(○)(○)")
	assert.Zero(t, clock.Pending(), "the cycle is torn down on exit")
}
