package startup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/cyclekit/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestEnvFileSyntax(t *testing.T) {
	path := writeEnvFile(t, `# leading comment
CYCLEKIT_SYNTAX_PLAIN=debug
export CYCLEKIT_SYNTAX_EXPORTED=true
CYCLEKIT_SYNTAX_QUOTED="hello # world"
CYCLEKIT_SYNTAX_SINGLE='quoted'
CYCLEKIT_SYNTAX_TRAILING=value # note
CYCLEKIT_SYNTAX_EMPTY=
`)

	want := map[string]string{
		"CYCLEKIT_SYNTAX_PLAIN":    "debug",
		"CYCLEKIT_SYNTAX_EXPORTED": "true",
		"CYCLEKIT_SYNTAX_QUOTED":   "hello # world",
		"CYCLEKIT_SYNTAX_SINGLE":   "quoted",
		"CYCLEKIT_SYNTAX_TRAILING": "value",
		"CYCLEKIT_SYNTAX_EMPTY":    "",
	}

	for key := range want {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	require.NoError(t, ConfigureEnvironmentFromFiles([]string{path}))

	for key, value := range want {
		got, ok := os.LookupEnv(key)
		assert.True(t, ok, key)
		assert.Equal(t, value, got, key)
	}
}

func TestConfigureEnvironmentFromYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "local.yaml")
	jsonPath := filepath.Join(dir, "local.json")

	require.NoError(t, os.WriteFile(yamlPath, []byte("env:\n  CYCLEKIT_STARTUP_YAML: from-yaml\n"), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"env": {"CYCLEKIT_STARTUP_JSON": "from-json"}}`), 0o600))

	t.Setenv("CYCLEKIT_STARTUP_YAML", "")
	t.Setenv("CYCLEKIT_STARTUP_JSON", "")
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_YAML"))
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_JSON"))

	require.NoError(t, ConfigureEnvironmentFromFiles([]string{yamlPath, jsonPath}))

	assert.Equal(t, "from-yaml", os.Getenv("CYCLEKIT_STARTUP_YAML"))
	assert.Equal(t, "from-json", os.Getenv("CYCLEKIT_STARTUP_JSON"))
}

func TestConfigureEnvironmentFromFiles(t *testing.T) {
	first := writeEnvFile(t, "CYCLEKIT_STARTUP_A=one\nCYCLEKIT_STARTUP_B=one\n")
	second := writeEnvFile(t, "CYCLEKIT_STARTUP_B=two\nCYCLEKIT_STARTUP_C=two\n")

	t.Setenv("CYCLEKIT_STARTUP_A", "preset")
	t.Setenv("CYCLEKIT_STARTUP_B", "")
	t.Setenv("CYCLEKIT_STARTUP_C", "")
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_B"))
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_C"))

	require.NoError(t, ConfigureEnvironmentFromFiles([]string{first, second}))

	assert.Equal(t, "preset", os.Getenv("CYCLEKIT_STARTUP_A"), "existing variables win")
	assert.Equal(t, "two", os.Getenv("CYCLEKIT_STARTUP_B"), "later files win")
	assert.Equal(t, "two", os.Getenv("CYCLEKIT_STARTUP_C"))

	require.NoError(t, ConfigureEnvironmentFromFiles([]string{first}, WithAllowOverride(true)))
	assert.Equal(t, "one", os.Getenv("CYCLEKIT_STARTUP_A"))
}

func TestConfigureEnvironmentReadsEnvFile(t *testing.T) {
	path := writeEnvFile(t, "CYCLEKIT_STARTUP_D=loaded\n")

	t.Setenv("ENV_FILE", " ;"+path+"; ")
	t.Setenv("CYCLEKIT_STARTUP_D", "")
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_D"))

	require.NoError(t, ConfigureEnvironment())
	assert.Equal(t, "loaded", os.Getenv("CYCLEKIT_STARTUP_D"))
}

func TestConfigureEnvironmentErrors(t *testing.T) {
	t.Setenv("ENV_FILE", "")

	require.NoError(t, ConfigureEnvironment())

	err := ConfigureEnvironmentFromFiles([]string{filepath.Join(t.TempDir(), "missing.env")})
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeEnvFile(t, "OK=1\nBAD-KEY=1\n")
	err = ConfigureEnvironmentFromFiles([]string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

	unknown := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("A = 1\n"), 0o600))

	err = ConfigureEnvironmentFromFiles([]string{unknown})
	require.ErrorIs(t, err, envutil.ErrUnknownFileType)
}

func TestMissingEnvFileAppliesNothing(t *testing.T) {
	good := writeEnvFile(t, "CYCLEKIT_STARTUP_PARTIAL=set\n")
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("ENV_FILE", good+";"+missing)
	t.Setenv("CYCLEKIT_STARTUP_PARTIAL", "")
	require.NoError(t, os.Unsetenv("CYCLEKIT_STARTUP_PARTIAL"))

	err := ConfigureEnvironment()
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)

	_, ok := os.LookupEnv("CYCLEKIT_STARTUP_PARTIAL")
	assert.False(t, ok, "a failed load leaves the environment untouched")
}
