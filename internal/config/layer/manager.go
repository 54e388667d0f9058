package layer

import (
	"sort"
	"sync"
)

// Manager manages configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool           // Whether merged cache needs refresh
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{
		layers: make([]*Layer, 0),
		dirty:  true,
	}
}

// AddLayer adds a layer to the manager.
// Layers are kept sorted by priority; equal priorities keep insertion order.
func (m *Manager) AddLayer(layer *Layer) {
	if layer == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, layer)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer is added.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.merged != nil {
		return cloneMap(m.merged)
	}

	result := make(map[string]any)

	// Apply layers in priority order (lowest first, highest last)
	for _, layer := range m.layers {
		result = DeepMerge(result, layer.Data)
	}

	m.merged = result
	m.dirty = false

	return cloneMap(result)
}

// Candidate is one layer's value for a path.
type Candidate struct {
	Value any
	Layer *Layer
}

// Candidates returns every layer's value for path, highest priority first.
// Callers use it to fall back to a lower layer when a higher value is unusable.
func (m *Manager) Candidates(path string) []Candidate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Candidate
	for i := len(m.layers) - 1; i >= 0; i-- {
		layer := m.layers[i]
		if val, ok := GetByPath(layer.Data, path); ok {
			out = append(out, Candidate{Value: val, Layer: layer})
		}
	}
	return out
}

// Keys returns the sorted set of flattened keys present in any layer.
func (m *Manager) Keys() []string {
	flat := FlattenMap(m.Merge())
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
