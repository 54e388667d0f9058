package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/voxcmd/internal/input/key"
)

// ErrUnbound is returned when a command has no key.
var ErrUnbound = errors.New("command has no key binding")

// Table holds the resolved command-to-key bindings for one grammar.
// A Table is read-only once built.
type Table struct {
	bindings map[string]Binding
}

// NewTable creates a table from bindings. Later bindings for the same
// command replace earlier ones.
func NewTable(bindings ...Binding) *Table {
	t := &Table{bindings: make(map[string]Binding, len(bindings))}
	for _, b := range bindings {
		if b.Command == "" || b.Key.IsZero() {
			continue
		}
		t.bindings[b.Command] = b
	}
	return t
}

// Lookup returns the key bound to command.
func (t *Table) Lookup(command string) (key.Identifier, bool) {
	if t == nil {
		return key.Identifier{}, false
	}
	b, ok := t.bindings[command]
	return b.Key, ok
}

// Binding returns the full binding for command.
func (t *Table) Binding(command string) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	b, ok := t.bindings[command]
	return b, ok
}

// Resolve maps every command to its key. It fails on the first command
// without a binding and returns no keys in that case.
func (t *Table) Resolve(commands []string) ([]key.Identifier, error) {
	keys := make([]key.Identifier, 0, len(commands))
	for _, cmd := range commands {
		id, ok := t.Lookup(cmd)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnbound, cmd)
		}
		keys = append(keys, id)
	}
	return keys, nil
}

// Len returns the number of bound commands.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Bindings returns all bindings sorted by command name.
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	out := make([]Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Command < out[j].Command
	})
	return out
}
