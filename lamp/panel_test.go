package lamp

import (
	"bytes"
	"testing"
	"time"

	"github.com/amp-labs/cyclekit/cycle"
	"github.com/amp-labs/cyclekit/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanel(t *testing.T) {
	t.Parallel()

	p, err := NewPanel(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Empty(t, p.Lit())
	assert.Equal(t, "(○)(○)(○)", p.String())

	_, err = NewPanel(0)
	require.ErrorIs(t, err, ErrInvalidCanisterCount)

	_, err = NewPanel(-2)
	require.ErrorIs(t, err, ErrInvalidCanisterCount)
}

func TestPanelApplyAndReset(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	p, err := NewPanel(3)
	require.NoError(t, err)

	p.Apply(ctx, nil, Yellow())
	assert.Equal(t, []int{1}, p.Lit())
	assert.Equal(t, []string{"", "yellow", ""}, p.Snapshot())

	p.Reset(ctx, nil)
	assert.Empty(t, p.Lit())

	p.Apply(ctx, nil, Dark())
	assert.Empty(t, p.Lit())

	p.Apply(ctx, nil, Red(WithCanister(7)))
	assert.Empty(t, p.Lit(), "out of range canisters are ignored")

	p.Apply(ctx, nil, Green(WithColor("teal")))
	assert.Equal(t, []string{"", "", "teal"}, p.Snapshot())
}

func TestPanelOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p, err := NewPanel(3, WithOutput(&buf))
	require.NoError(t, err)

	p.Apply(t.Context(), nil, Red())
	p.Reset(t.Context(), nil)
	p.Apply(t.Context(), nil, Green())

	assert.Equal(t, "Red     (●)(○)(○)\nGreen   (○)(○)(●)\n", buf.String())
}

func TestPanelDrivesTrafficLight(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clock := scheduler.NewManual()

	var buf bytes.Buffer

	p, err := NewPanel(3, WithOutput(&buf))
	require.NoError(t, err)

	tr, err := cycle.New(clock, RedYellowGreen(), cycle.WithName(t.Name()), cycle.WithEffect(p))
	require.NoError(t, err)

	require.NoError(t, tr.Start(ctx))
	assert.Equal(t, []int{0}, p.Lit())

	clock.Advance(time.Second)
	assert.Equal(t, []int{1}, p.Lit(), "only the current state's canister is lit")

	clock.Advance(time.Second)
	assert.Equal(t, []int{2}, p.Lit())

	clock.Advance(time.Second)
	assert.Equal(t, []int{0}, p.Lit())

	assert.Equal(t,
		"Red     (●)(○)(○)\n"+
			"Yellow  (○)(●)(○)\n"+
			"Green   (○)(○)(●)\n"+
			"Red     (●)(○)(○)\n",
		buf.String())
}
