package cycle

import (
	"testing"
	"time"

	"github.com/amp-labs/cyclekit/scheduler"
	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(scheduler.NewManual(), WithRegistryLogger(NewSlogLogger(slogt.New(t))))

	tr, err := registry.New(trafficLight(), WithName("main"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, tr.Handle())
	assert.Equal(t, "main", tr.Name())

	found, ok := registry.Lookup(tr.Handle())
	require.True(t, ok)
	assert.Same(t, tr, found)

	_, ok = registry.Lookup(uuid.New())
	assert.False(t, ok)
}

func TestRegistryDefaultNames(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(scheduler.NewManual())

	for range 11 {
		_, err := registry.New(trafficLight())
		require.NoError(t, err)
	}

	names := registry.Names()
	require.Len(t, names, 11)
	assert.Equal(t, "cycle-1", names[0])
	assert.Equal(t, "cycle-2", names[1])
	assert.Equal(t, "cycle-10", names[9])
	assert.Equal(t, "cycle-11", names[10])
}

func TestRegistryDestroyMakesCallbacksInert(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clock := scheduler.NewManual()
	registry := NewRegistry(leaky(clock), WithRegistryLogger(NewSlogLogger(slogt.New(t))))

	states := trafficLight()
	tr, err := registry.New(states, WithName(t.Name()))
	require.NoError(t, err)

	require.NoError(t, tr.Start(ctx))
	require.True(t, registry.Destroy(ctx, tr.Handle()))
	assert.False(t, registry.Destroy(ctx, tr.Handle()))

	assert.True(t, tr.Cancelled())
	assert.Zero(t, registry.Len())

	assert.Equal(t, 1, clock.Advance(time.Second))
	assert.Same(t, states[0], tr.Current())
	assert.InDelta(t, 1, testutil.ToFloat64(staleCallbacksTotal.WithLabelValues(t.Name(), reasonDestroyed)), 0)
}

func TestRegistryIndependentTransitioners(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clock := scheduler.NewManual()
	registry := NewRegistry(clock)

	fast := []*State{{Name: "a", Delay: time.Second}, {Name: "b", Delay: time.Second}}
	slow := []*State{{Name: "x", Delay: 3 * time.Second}, {Name: "y", Delay: 3 * time.Second}}

	first, err := registry.New(fast)
	require.NoError(t, err)

	second, err := registry.New(slow)
	require.NoError(t, err)

	require.NoError(t, first.Start(ctx))
	require.NoError(t, second.Start(ctx))

	clock.Advance(2 * time.Second)
	assert.Same(t, fast[0], first.Current())
	assert.Same(t, slow[0], second.Current())

	clock.Advance(time.Second)
	assert.Same(t, fast[1], first.Current())
	assert.Same(t, slow[1], second.Current())

	registry.Destroy(ctx, first.Handle())

	clock.Advance(3 * time.Second)
	assert.Same(t, fast[1], first.Current())
	assert.Same(t, slow[0], second.Current())
}

func TestRegistryClose(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clock := scheduler.NewManual()
	registry := NewRegistry(clock)

	var all []*Transitioner

	for range 3 {
		tr, err := registry.New(trafficLight())
		require.NoError(t, err)
		require.NoError(t, tr.Start(ctx))

		all = append(all, tr)
	}

	registry.Close(ctx)

	assert.Zero(t, registry.Len())
	assert.Zero(t, clock.Pending())

	for _, tr := range all {
		assert.True(t, tr.Cancelled())
	}

	_, err := registry.New(trafficLight())
	require.ErrorIs(t, err, ErrRegistryClosed)
}
