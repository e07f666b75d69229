package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrInvalidChoice   = errors.New("value is not an allowed choice")
)

func parseSlogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
	}
}

func parseURL(value string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q must have a scheme and host", ErrInvalidURL, value)
	}

	return parsed, nil
}

func oneOf(value string, choices []string) (string, error) {
	if slices.Contains(choices, value) {
		return value, nil
	}

	return "", fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidChoice, value, choices)
}
