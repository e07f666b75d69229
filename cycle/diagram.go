package cycle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigNil is returned when rendering a nil configuration.
var ErrConfigNil = errors.New("config cannot be nil")

// DiagramOptions configures Mermaid output.
type DiagramOptions struct {
	// Direction is "TB" or "LR". Empty means top to bottom.
	Direction string
	// ShowDelays labels each edge with the delay of its source state.
	ShowDelays bool
	// Fenced wraps the diagram in a ```mermaid block.
	Fenced bool
	// Highlight names states drawn with the highlighted class.
	Highlight []string
}

// DefaultDiagramOptions returns the options used by Mermaid.
func DefaultDiagramOptions() DiagramOptions {
	return DiagramOptions{
		ShowDelays: true,
		Fenced:     true,
	}
}

// Mermaid renders the cycle as a stateDiagram-v2.
func Mermaid(cfg *Config) (string, error) {
	return MermaidWithOptions(cfg, DefaultDiagramOptions())
}

// MermaidWithOptions renders the cycle with custom options. Nodes are keyed
// by position (s0, s1, ...) so that states sharing a name stay distinct; the
// last state has an edge back to the first.
func MermaidWithOptions(cfg *Config, opts DiagramOptions) (string, error) {
	if cfg == nil {
		return "", ErrConfigNil
	}

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	highlight := make(map[string]bool, len(opts.Highlight))
	for _, name := range opts.Highlight {
		highlight[name] = true
	}

	var sb strings.Builder

	if opts.Fenced {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString("stateDiagram-v2\n")

	if opts.Direction != "" {
		fmt.Fprintf(&sb, "    direction %s\n", opts.Direction)
	}

	for i, sc := range cfg.States {
		fmt.Fprintf(&sb, "    s%d : %s\n", i, describe(sc))
	}

	sb.WriteString("    [*] --> s0\n")

	for i, sc := range cfg.States {
		next := (i + 1) % len(cfg.States)

		label := ""
		if opts.ShowDelays {
			label = " : " + sc.Delay.String()
		}

		fmt.Fprintf(&sb, "    s%d --> s%d%s\n", i, next, label)
	}

	for i, sc := range cfg.States {
		switch {
		case highlight[sc.Name]:
			fmt.Fprintf(&sb, "    class s%d highlighted\n", i)
		case isDark(sc):
			fmt.Fprintf(&sb, "    class s%d darkState\n", i)
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef darkState fill:#424242,color:#fafafa\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	if opts.Fenced {
		sb.WriteString("```\n")
	}

	return sb.String(), nil
}

func isDark(sc StateConfig) bool {
	kind, err := ParseKind(sc.Kind)

	return err == nil && kind == KindDark
}

func describe(sc StateConfig) string {
	if isDark(sc) {
		return sc.Name + " (dark)"
	}

	if sc.Color == "" {
		return fmt.Sprintf("%s (#%d)", sc.Name, sc.Canister)
	}

	return fmt.Sprintf("%s (%s #%d)", sc.Name, sc.Color, sc.Canister)
}
