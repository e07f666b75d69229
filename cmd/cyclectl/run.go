package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	"github.com/amp-labs/cyclekit/cli"
	"github.com/amp-labs/cyclekit/cycle"
	"github.com/amp-labs/cyclekit/lamp"
	"github.com/amp-labs/cyclekit/logger"
	"github.com/amp-labs/cyclekit/presets"
	"github.com/amp-labs/cyclekit/scheduler"
)

const defaultPreset = "standard"

// ErrConflictingSources is returned when more than one cycle source is given.
var ErrConflictingSources = errors.New("use only one of -config, -preset and -select")

// ErrNegativeCanisters is returned for a -canisters value below zero.
var ErrNegativeCanisters = errors.New("-canisters must not be negative")

type options struct {
	config       string
	preset       string
	selectPreset bool
	transitions  uint64
	canisters    int
	diagram      bool
	list         bool
}

// picker chooses one of choices; cli.Select in production.
type picker func(label string, choices ...string) (string, error)

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.config, "config", "", "path to a cycle YAML file")
	fs.StringVar(&opts.preset, "preset", "", "name of a built-in cycle (see -list)")
	fs.BoolVar(&opts.selectPreset, "select", false, "choose a built-in cycle interactively")
	fs.Uint64Var(&opts.transitions, "transitions", 0, "stop after this many transitions (0 runs until interrupted)")
	fs.IntVar(&opts.canisters, "canisters", 0, "override the canister count of the cycle (0 keeps the configured count)")
	fs.BoolVar(&opts.diagram, "diagram", false, "print the cycle as a Mermaid diagram and exit")
	fs.BoolVar(&opts.list, "list", false, "list the built-in cycles and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	sources := 0

	for _, set := range []bool{opts.config != "", opts.preset != "", opts.selectPreset} {
		if set {
			sources++
		}
	}

	if sources > 1 {
		return nil, ErrConflictingSources
	}

	if opts.canisters < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCanisters, opts.canisters)
	}

	return opts, nil
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	if opts.list {
		for _, name := range presets.Loader().ListAvailable() {
			if _, err := fmt.Fprintln(stdout, name); err != nil {
				return err
			}
		}

		return nil
	}

	cfg, err := resolveConfig(opts, cli.Select)
	if err != nil {
		return err
	}

	if opts.diagram {
		diagram, err := cycle.Mermaid(cfg)
		if err != nil {
			return err
		}

		_, err = io.WriteString(stdout, diagram)

		return err
	}

	queue := scheduler.NewQueue(scheduler.WithContext(ctx))
	defer queue.Stop()

	return runCycle(ctx, cfg, opts.transitions, stdout, queue)
}

// resolveConfig loads the cycle named by opts, falling back to the standard preset.
func resolveConfig(opts *options, pick picker) (*cycle.Config, error) {
	source := opts.config

	switch {
	case source != "":
	case opts.preset != "":
		source = opts.preset
	case opts.selectPreset:
		name, err := pick("Cycle", presets.Loader().ListAvailable()...)
		if err != nil {
			return nil, fmt.Errorf("failed to select a cycle: %w", err)
		}

		source = name
	default:
		source = defaultPreset
	}

	cfg, err := cycle.LoadConfig(source)
	if err != nil {
		return nil, err
	}

	if opts.canisters > 0 {
		cfg.Canisters = opts.canisters

		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runCycle shows cfg on a console panel until ctx ends or limit transitions
// have been applied. A zero limit means no limit.
func runCycle(
	ctx context.Context, cfg *cycle.Config, limit uint64, stdout io.Writer, sched scheduler.Scheduler,
) error {
	states, err := cfg.Build()
	if err != nil {
		return err
	}

	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%s\n%d states, %d canisters\n%s", cfg.Name, len(states), cfg.CanisterCount(), fingerprint)
	if _, err := io.WriteString(stdout, cli.BannerAutoWidth(header, cli.AlignLeft)); err != nil {
		return err
	}

	panel, err := lamp.NewPanel(cfg.CanisterCount(), lamp.WithOutput(stdout))
	if err != nil {
		return err
	}

	registry := cycle.NewRegistry(sched)
	defer registry.Close(context.WithoutCancel(ctx))

	done := make(chan struct{})

	var once sync.Once

	stopAtLimit := func(_ context.Context, t *cycle.Transitioner, _, _ *cycle.State) {
		if limit > 0 && t.Transitions() >= limit {
			once.Do(func() { close(done) })
		}
	}

	transitioner, err := registry.New(states,
		cycle.WithName(cfg.Name),
		cycle.WithEffect(panel),
		cycle.WithTransitionHook(stopAtLimit),
	)
	if err != nil {
		return err
	}

	log := logger.Get(ctx)
	log.InfoContext(ctx, "Starting cycle",
		"cycle", cfg.Name,
		"handle", transitioner.Handle().String(),
		"fingerprint", fingerprint,
		"limit", limit,
	)

	if err := transitioner.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-done:
	}

	registry.Destroy(context.WithoutCancel(ctx), transitioner.Handle())

	log.InfoContext(ctx, "Cycle stopped",
		"cycle", cfg.Name,
		"transitions", transitioner.Transitions(),
		"state", transitioner.Current().Name,
	)

	return nil
}
