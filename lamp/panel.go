// Package lamp renders cycle states onto a panel of light canisters, the
// way a traffic light shows one lit lamp at a time.
package lamp

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/amp-labs/cyclekit/cycle"
	"github.com/amp-labs/cyclekit/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidCanisterCount is returned for a panel without canisters.
var ErrInvalidCanisterCount = errors.New("canister count must be positive")

const (
	bulbLit   = "(●)"
	bulbUnlit = "(○)"

	labelWidth = 8
)

// Panel is a row of canisters. It implements cycle.Effect: Apply lights the
// canister a solid state names, Reset turns everything off.
type Panel struct {
	mu     sync.Mutex
	colors []string // "" means unlit
	out    io.Writer
	title  cases.Caser
}

var _ cycle.Effect = (*Panel)(nil)

// Option configures a Panel.
type Option func(*Panel)

// WithOutput writes one line per applied state to w.
func WithOutput(w io.Writer) Option {
	return func(p *Panel) {
		p.out = w
	}
}

// NewPanel creates a panel of count unlit canisters.
func NewPanel(count int, opts ...Option) (*Panel, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCanisterCount, count)
	}

	p := &Panel{
		colors: make([]string, count),
		title:  cases.Title(language.English),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Apply renders s. Solid states light one canister; dark states light none.
// A canister index outside the panel is logged and otherwise ignored.
func (p *Panel) Apply(ctx context.Context, t *cycle.Transitioner, s *cycle.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch s.Kind {
	case cycle.KindSolid:
		if s.Canister < 0 || s.Canister >= len(p.colors) {
			logger.Get(ctx).WarnContext(ctx, "Canister out of range",
				"cycle", cycleName(t),
				"state", s.Name,
				"canister", s.Canister,
				"canisters", len(p.colors),
			)

			break
		}

		color := cmp.Or(s.Color, s.Name, "on")

		p.colors[s.Canister] = color
	case cycle.KindDark:
	default:
		logger.Get(ctx).WarnContext(ctx, "Unknown state kind", "cycle", cycleName(t), "kind", s.Kind.String())
	}

	if p.out != nil {
		label := p.title.String(s.Name)
		if _, err := fmt.Fprintf(p.out, "%-*s%s\n", labelWidth, label, p.renderLocked()); err != nil {
			logger.Get(ctx).DebugContext(ctx, "Failed to write panel output", "error", err)
		}
	}
}

// Reset turns every canister off.
func (p *Panel) Reset(context.Context, *cycle.Transitioner) {
	p.mu.Lock()
	defer p.mu.Unlock()

	clear(p.colors)
}

// Len returns the number of canisters.
func (p *Panel) Len() int {
	return len(p.colors)
}

// Lit returns the indexes of lit canisters in ascending order.
func (p *Panel) Lit() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lit []int

	for i, c := range p.colors {
		if c != "" {
			lit = append(lit, i)
		}
	}

	return lit
}

// Snapshot returns the color of every canister, "" for unlit ones.
func (p *Panel) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.colors...)
}

func (p *Panel) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.renderLocked()
}

func (p *Panel) renderLocked() string {
	var sb strings.Builder

	for _, c := range p.colors {
		if c == "" {
			sb.WriteString(bulbUnlit)
		} else {
			sb.WriteString(bulbLit)
		}
	}

	return sb.String()
}

func cycleName(t *cycle.Transitioner) string {
	if t == nil {
		return ""
	}

	return t.Name()
}
