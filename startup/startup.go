// Package startup loads environment variables from files before the rest of
// the process reads its configuration. It is meant for local development,
// where a .env file stands in for a deployment's environment.
package startup

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/amp-labs/cyclekit/envutil"
)

// Option is a functional option for configuring environment loading behavior.
type Option func(*options)

type options struct {
	// allowOverride lets file values replace variables already set in the
	// process environment.
	allowOverride bool
}

// WithAllowOverride lets values from files override existing variables.
func WithAllowOverride(allowOverride bool) Option {
	return func(o *options) {
		o.allowOverride = allowOverride
	}
}

// ConfigureEnvironment loads the files listed in ENV_FILE, a semicolon
// separated list of paths. Existing variables win unless WithAllowOverride
// is given. An unset or empty ENV_FILE is not an error.
func ConfigureEnvironment(opts ...Option) error {
	files := envutil.Map(envutil.String("ENV_FILE"), splitFileList).ValueOrElse(nil)

	return ConfigureEnvironmentFromFiles(files, opts...)
}

// ConfigureEnvironmentFromFiles loads the given files in order. Later files
// win over earlier ones. Any file failing to load aborts the whole call
// before a single variable is set. See envutil.LoadEnvFile for the formats.
func ConfigureEnvironmentFromFiles(files []string, opts ...Option) error {
	cfg := &options{}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	values := make(map[string]string)

	for _, file := range files {
		vars, err := envutil.LoadEnvFile(file)
		if err != nil {
			return fmt.Errorf("loading environment variables from file %q: %w", file, err)
		}

		maps.Copy(values, vars)
	}

	for k, v := range values {
		oldValue, exists := os.LookupEnv(k)
		if exists && (!cfg.allowOverride || oldValue == v) {
			continue
		}

		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("setting environment variable %q: %w", k, err)
		}
	}

	return nil
}

func splitFileList(value string) ([]string, error) {
	var out []string

	for part := range strings.SplitSeq(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out, nil
}
