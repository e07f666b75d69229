// Package envutil reads typed configuration from environment variables.
//
// Every reader returns a Reader[T], which carries the key, whether the
// variable was present, the parsed value and any parse error. Options such as
// Default and Validate are applied in order:
//
//	delay := envutil.Duration("CYCLE_DEFAULT_DELAY", envutil.Default(time.Second)).ValueOrFatal()
package envutil

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// get returns a Reader for the raw value of key.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// NewReader builds a Reader from values obtained elsewhere, such as a
// command-line flag, so they can share the option and fallback machinery.
func NewReader[T any](key string, present bool, err error, value T) Reader[T] {
	return Reader[T]{
		key:     key,
		present: present,
		value:   value,
		err:     err,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String reads key verbatim.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// Bool reads key using strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), strconv.ParseBool), opts)
}

// Int reads key as a base 10 integer.
func Int(key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(key), func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}), opts)
}

// Duration reads key using time.ParseDuration.
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(key), func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	}), opts)
}

// URL reads key as an absolute URL.
func URL(key string, opts ...Option[*url.URL]) Reader[*url.URL] {
	return apply(Map(get(key), parseURL), opts)
}

// SlogLevel reads key as one of debug, info, warn or error (case-insensitive).
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(key), parseSlogLevel), opts)
}

// OneOf reads key and fails unless the value is one of choices.
func OneOf(key string, choices []string, opts ...Option[string]) Reader[string] {
	return apply(Map(get(key), func(s string) (string, error) {
		return oneOf(s, choices)
	}), opts)
}
