// Package layer provides prioritized configuration layers.
//
// A layer is one source of values: built-in defaults, the game's own
// settings file, the user's voxcmd config or command-line flags.
// Higher priority layers override values from lower priority layers.
package layer

import (
	"time"
)

// Layer represents a single configuration layer.
type Layer struct {
	// Name identifies the layer (e.g., "defaults", "Input.ini").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path (if loaded from file).
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the source was last modified.
	ModTime time.Time
}

// NewLayerWithData creates a new layer with initial data.
func NewLayerWithData(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// FromStrings creates a layer from a flat string map.
func FromStrings(name string, source Source, values map[string]string) *Layer {
	data := make(map[string]any, len(values))
	for k, v := range values {
		data[k] = v
	}
	return NewLayerWithData(name, source, data)
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Priority: l.Priority,
		Source:   l.Source,
		Path:     l.Path,
		Data:     cloneMap(l.Data),
		ModTime:  l.ModTime,
	}
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents values compiled into voxcmd.
	SourceBuiltin Source = iota
	// SourceGameSettings represents values read from the game's own settings.
	SourceGameSettings
	// SourceUser represents the user's voxcmd config file.
	SourceUser
	// SourceArgs represents command-line arguments.
	SourceArgs
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceGameSettings:
		return "game"
	case SourceUser:
		return "user"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}

// cloneValue creates a deep copy of a value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}
