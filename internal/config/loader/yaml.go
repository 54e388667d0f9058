package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads data from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a new YAML loader reading from the OS.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{fs: DefaultFS()}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// LoadFrom reads data from a specific path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readOptional(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.Parse(path, data)
}

// Parse parses YAML data into a map. Nested mappings are normalized to
// map[string]any so YAML and TOML results can be merged.
func (l *YAMLLoader) Parse(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		return nil, perr
	}
	if out == nil {
		return make(map[string]any), nil
	}

	normalized, ok := normalizeYAML(out).(map[string]any)
	if !ok {
		return nil, &ParseError{Path: source, Message: "top level must be a mapping"}
	}
	return normalized, nil
}

// normalizeYAML converts map[any]any values (non-string keys) to map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
