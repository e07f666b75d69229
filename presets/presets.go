// Package presets ships the built-in cycle definitions. Register it with
// cycle.SetConfigLoader(presets.Loader()) to load them by name.
package presets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/cyclekit/cycle"
)

// ErrUnknownPreset is returned for a name with no embedded definition.
var ErrUnknownPreset = errors.New("unknown preset")

//go:embed cycles/*.yaml
var files embed.FS

const dir = "cycles"

// EmbeddedLoader implements cycle.ConfigLoader over the embedded files.
type EmbeddedLoader struct {
	fsys fs.FS
}

var _ cycle.ConfigLoader = (*EmbeddedLoader)(nil)

// Loader returns a loader for the built-in presets.
func Loader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: files}
}

func (l *EmbeddedLoader) LoadByName(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	data, err := fs.ReadFile(l.fsys, path.Join(dir, name+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}

		return nil, fmt.Errorf("failed to read preset %q: %w", name, err)
	}

	return data, nil
}

// ListAvailable returns the preset names in natural order.
func (l *EmbeddedLoader) ListAvailable() []string {
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}

		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}

	natsort.Sort(names)

	return names
}

// Load parses and validates the named preset.
func Load(name string) (*cycle.Config, error) {
	data, err := Loader().LoadByName(name)
	if err != nil {
		return nil, err
	}

	return cycle.LoadConfigFromBytes(data)
}
