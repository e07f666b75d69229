// Command cyclectl runs a light cycle on the console.
//
//	cyclectl                          run the standard preset until interrupted
//	cyclectl -preset night -transitions 20
//	cyclectl -config ./my-cycle.yaml
//	cyclectl -select                  pick a preset interactively
//	cyclectl -preset uk -diagram      print a Mermaid diagram and exit
//	cyclectl -list                    list the built-in presets
//
// Files listed in ENV_FILE are loaded into the environment first. Logging
// follows LOG_LEVEL, LOG_JSON and LOG_OUTPUT; OTEL_ENABLED turns on trace and
// log export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/cyclekit/cycle"
	"github.com/amp-labs/cyclekit/logger"
	"github.com/amp-labs/cyclekit/presets"
	"github.com/amp-labs/cyclekit/shutdown"
	"github.com/amp-labs/cyclekit/stage"
	"github.com/amp-labs/cyclekit/startup"
	"github.com/amp-labs/cyclekit/telemetry"
)

const (
	appName = "cyclectl"

	telemetryShutdownTimeout = 5 * time.Second
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(2) //nolint:mnd
	}

	if err := startup.ConfigureEnvironment(); err != nil {
		slog.Error("Failed to load environment files", "error", err)
		os.Exit(1)
	}

	ctx := logger.WithSubsystem(shutdown.SetupHandler(), appName)

	setupObservability(ctx)

	cycle.SetConfigLoader(presets.Loader())

	if err := run(ctx, opts, os.Stdout); err != nil {
		logger.Fatal("cyclectl failed", "error", err)
	}

	// Run the shutdown hooks so telemetry is flushed, then wait for them.
	shutdown.Shutdown()
	<-ctx.Done()
}

// setupObservability configures logging and, when OTEL_ENABLED is set, the
// OpenTelemetry trace and log pipelines.
func setupObservability(ctx context.Context) {
	telemetryConfig, err := telemetry.LoadConfigFromEnv(ctx, stage.Current().String())
	if err != nil {
		logger.ConfigureLogging(appName)
		slog.Warn("Invalid OpenTelemetry configuration, telemetry disabled", "error", err)

		return
	}

	logsHandler, err := telemetry.InitializeLogs(ctx, telemetryConfig)
	if err != nil {
		logger.ConfigureLogging(appName)
		slog.Warn("Failed to initialize OpenTelemetry logs", "error", err)
	} else {
		logger.ConfigureLogging(appName, logger.WithHandler(logsHandler))
	}

	if err := telemetry.Initialize(ctx, telemetryConfig); err != nil {
		slog.Warn("Failed to initialize OpenTelemetry tracing", "error", err)
	}

	shutdown.BeforeShutdown(func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()

		if err := telemetry.Shutdown(flushCtx); err != nil {
			slog.Warn("Failed to flush telemetry", "error", err)
		}
	})
}
