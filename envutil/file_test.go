package envutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	files := map[string]string{
		"local.env":  "export LOG_LEVEL=debug\nCYCLEKIT_NO_BANNER=\"true\" # quiet\n",
		"local.JSON": `{"env": {"LOG_LEVEL": "debug", "CYCLEKIT_NO_BANNER": "true"}}`,
		"local.yml":  "env:\n  LOG_LEVEL: debug\n  CYCLEKIT_NO_BANNER: \"true\"\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		vars, err := LoadEnvFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, map[string]string{"LOG_LEVEL": "debug", "CYCLEKIT_NO_BANNER": "true"}, vars, name)
	}
}

func TestLoadEnvFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadEnvFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadEnvFile(filepath.Join(dir, "settings.ini"))
	require.ErrorIs(t, err, ErrUnknownFileType)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o600))

	_, err = LoadEnvFile(broken)
	require.Error(t, err)
}
