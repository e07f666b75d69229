package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Stage{
		"local":     Local,
		"test":      Test,
		"dev":       Dev,
		"staging":   Staging,
		"prod":      Prod,
		" PROD ":    Prod,
		"Staging\n": Staging,
	} {
		got, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "unknown", "production", "qa"} {
		got, err := Parse(input)
		require.ErrorIs(t, err, ErrUnrecognizedStage, input)
		assert.Equal(t, Unknown, got)
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("RUNNING_ENV", "staging")
	assert.Equal(t, Staging, Detect())

	t.Setenv("RUNNING_ENV", "bogus")
	assert.Equal(t, Test, Detect(), "invalid values fall back to test under go test")

	t.Setenv("RUNNING_ENV", "")
	assert.Equal(t, Test, Detect())
}

func TestStageString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "prod", Prod.String())
}
