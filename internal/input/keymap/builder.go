package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/voxcmd/internal/config/layer"
	"github.com/dshills/voxcmd/internal/input/key"
)

// Builder assembles a Table from prioritized layers of name-to-key strings.
type Builder struct {
	layers *layer.Manager
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{layers: layer.NewManager()}
}

// Add adds a layer of command-to-key-name values.
func (b *Builder) Add(name string, source layer.Source, values map[string]string) *Builder {
	if len(values) == 0 {
		return b
	}
	b.layers.AddLayer(layer.FromStrings(name, source, values))
	return b
}

// AddLayer adds a prepared layer.
func (b *Builder) AddLayer(l *layer.Layer) *Builder {
	b.layers.AddLayer(l)
	return b
}

// Build resolves every command to the highest-priority usable key name.
//
// The returned table is always usable. The error, if any, joins one
// diagnostic per skipped value so the caller can report them.
func (b *Builder) Build() (*Table, error) {
	var (
		bindings []Binding
		errs     []error
	)

	for _, command := range b.layers.Keys() {
		for _, c := range b.layers.Candidates(command) {
			name, ok := c.Value.(string)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: %s: key must be a string, got %T", c.Layer.Name, command, c.Value))
				continue
			}
			if strings.TrimSpace(name) == "" {
				continue
			}
			id, err := key.Parse(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", c.Layer.Name, command, err))
				continue
			}
			bindings = append(bindings, NewBinding(command, id).WithSource(c.Layer.Name))
			break
		}
	}

	return NewTable(bindings...), errors.Join(errs...)
}
