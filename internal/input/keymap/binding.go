package keymap

import (
	"github.com/dshills/voxcmd/internal/input/key"
)

// Binding represents a single command-to-key mapping.
type Binding struct {
	// Command is the abstract command name.
	// Examples: "cmd_menu", "gold", "interact"
	Command string

	// Key is the physical key or mouse button.
	Key key.Identifier

	// Source names the layer that supplied the binding.
	// Examples: "defaults", "Input.ini", "user"
	Source string
}

// NewBinding creates a new binding with the given command and key.
func NewBinding(command string, id key.Identifier) Binding {
	return Binding{
		Command: command,
		Key:     id,
	}
}

// WithSource sets the source for this binding.
func (b Binding) WithSource(source string) Binding {
	b.Source = source
	return b
}
