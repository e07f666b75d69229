package cycle

import (
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// DefaultCanisters is the canister count used when a config leaves it unset.
const DefaultCanisters = 3

// ConfigLoader resolves a bare cycle name such as "standard" or "night" to
// its YAML definition. The presets package embeds one for the built-in cycles.
type ConfigLoader interface {
	LoadByName(name string) ([]byte, error)
	ListAvailable() []string
}

var defaultConfigLoader ConfigLoader

// SetConfigLoader installs the loader LoadConfig consults for cycle names.
// Passing nil leaves only file paths loadable.
func SetConfigLoader(loader ConfigLoader) {
	defaultConfigLoader = loader
}

// Config describes a cycle declaratively.
type Config struct {
	Name      string        `json:"name"      yaml:"name"`
	Canisters int           `json:"canisters" yaml:"canisters,omitempty"`
	States    []StateConfig `json:"states"    yaml:"states"`
}

// StateConfig is the declarative form of a State.
type StateConfig struct {
	Name     string        `json:"name"     yaml:"name"`
	Kind     string        `json:"kind"     yaml:"kind,omitempty"` // "solid" (default) or "dark"
	Canister int           `json:"canister" yaml:"canister"`
	Color    string        `json:"color"    yaml:"color,omitempty"`
	Delay    time.Duration `json:"delay"    yaml:"delay"`
}

// LoadConfig reads a cycle definition. Anything that looks like a file (a
// separator in it, or a .yaml/.yml suffix) is read from disk; a bare name
// goes to the installed ConfigLoader, and a miss lists the cycles it knows.
func LoadConfig(pathOrName string) (*Config, error) {
	lower := strings.ToLower(pathOrName)

	isPath := strings.Contains(pathOrName, "/") ||
		strings.Contains(pathOrName, `\`) ||
		strings.HasSuffix(lower, ".yaml") ||
		strings.HasSuffix(lower, ".yml")

	if isPath {
		data, err := os.ReadFile(pathOrName) //nolint:gosec // Intentional path-based loading
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", pathOrName, err)
		}

		return LoadConfigFromBytes(data)
	}

	if defaultConfigLoader == nil {
		return nil, ErrNoConfigLoader
	}

	data, err := defaultConfigLoader.LoadByName(pathOrName)
	if err != nil {
		available := defaultConfigLoader.ListAvailable()

		return nil, fmt.Errorf("failed to load config %q (available: %v): %w", pathOrName, available, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates a YAML configuration.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalidConfiguration, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from fsys, typically an embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// CanisterCount returns Canisters, or DefaultCanisters when unset.
func (c *Config) CanisterCount() int {
	if c.Canisters <= 0 {
		return DefaultCanisters
	}

	return c.Canisters
}

// Validate checks the configuration. Every error matches ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return invalid(ErrConfigNameRequired)
	}

	if c.Canisters < 0 {
		return invalid(fmt.Errorf("%w: canisters = %d", ErrInvalidCanister, c.Canisters))
	}

	if len(c.States) == 0 {
		return invalid(ErrStateRequired)
	}

	canisters := c.CanisterCount()

	for i, sc := range c.States {
		if err := sc.validate(canisters); err != nil {
			return invalid(&StateError{Index: i, State: sc.Name, Err: err})
		}
	}

	return nil
}

func (sc StateConfig) validate(canisters int) error {
	if sc.Name == "" {
		return ErrStateNameRequired
	}

	kind, err := ParseKind(sc.Kind)
	if err != nil {
		return err
	}

	if sc.Delay < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDelay, sc.Delay)
	}

	if kind == KindSolid && (sc.Canister < 0 || sc.Canister >= canisters) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidCanister, sc.Canister, canisters)
	}

	return nil
}

// Build validates the configuration and returns one fresh State per entry,
// in order. Every call returns new values, so two builds never share states.
func (c *Config) Build() ([]*State, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	states := make([]*State, len(c.States))

	for i, sc := range c.States {
		kind, _ := ParseKind(sc.Kind) // validated above

		states[i] = &State{
			Name:     sc.Name,
			Kind:     kind,
			Canister: sc.Canister,
			Color:    sc.Color,
			Delay:    sc.Delay,
		}
	}

	return states, nil
}

// Fingerprint returns a stable hash of the configuration's canonical YAML
// form. Two configs that describe the same cycle share a fingerprint
// regardless of formatting, comments or spelled-out defaults.
func (c *Config) Fingerprint() (string, error) {
	data, err := yaml.Marshal(c.canonical())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

// canonical fills in the defaults Build would apply, so that "canisters: 3"
// and an omitted count hash alike. Dark states drop their unused canister.
func (c *Config) canonical() *Config {
	out := &Config{
		Name:      c.Name,
		Canisters: c.CanisterCount(),
		States:    slices.Clone(c.States),
	}

	for i, sc := range out.States {
		if kind, err := ParseKind(sc.Kind); err == nil {
			out.States[i].Kind = kind.String()

			if kind == KindDark {
				out.States[i].Canister = 0
			}
		}
	}

	return out
}
