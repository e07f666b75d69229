// Package stage determines the deployment environment (local, test, dev,
// staging, prod) from the RUNNING_ENV environment variable.
package stage

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/amp-labs/cyclekit/envutil"
)

// Stage represents a deployment environment.
type Stage string

// ErrUnrecognizedStage is returned when RUNNING_ENV holds an unknown value.
var ErrUnrecognizedStage = errors.New("unrecognized stage")

const (
	Unknown Stage = "unknown"
	Local   Stage = "local"
	Test    Stage = "test"
	Dev     Stage = "dev"
	Staging Stage = "staging"
	Prod    Stage = "prod"
)

func (s Stage) String() string {
	return string(s)
}

// Parse maps a RUNNING_ENV value to a Stage. Matching ignores case and
// surrounding whitespace.
func Parse(value string) (Stage, error) {
	switch s := Stage(strings.ToLower(strings.TrimSpace(value))); s {
	case Local, Test, Dev, Staging, Prod:
		return s, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnrecognizedStage, value)
	}
}

// Current returns the stage, determined once per process.
func Current() Stage {
	return current()
}

var current = sync.OnceValue(func() Stage { //nolint:gochecknoglobals
	s := Detect()

	if s != Unknown {
		slog.Info("Configured stage", "stage", s)
	}

	return s
})

// Detect reads RUNNING_ENV without caching. Unset or invalid values yield
// Test inside `go test` binaries and Local otherwise.
func Detect() Stage {
	fallback := Local

	// test.v is registered by the testing package.
	if flag.Lookup("test.v") != nil {
		fallback = Test
	}

	return envutil.Map(envutil.String("RUNNING_ENV"), Parse).ValueOrElse(fallback)
}
