// FILE: lixenwraith/envdot/flatmap.go
package envdot

// FlatMap is an insertion-ordered mapping of flat keys to raw string values.
// The zero value is not usable; create one with NewFlatMap.
type FlatMap struct {
	keys   []string
	values map[string]string
}

// NewFlatMap creates an empty FlatMap.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]string)}
}

// FlatMapOf builds a FlatMap from alternating key, value arguments.
// A trailing key without a value is ignored.
func FlatMapOf(pairs ...string) *FlatMap {
	m := NewFlatMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
// Reports whether the key already existed.
func (m *FlatMap) Set(key, value string) bool {
	_, exists := m.values[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return exists
}

// Get returns the raw value for key.
func (m *FlatMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *FlatMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *FlatMap) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (m *FlatMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *FlatMap) Len() int {
	return len(m.keys)
}

// Clone returns an independent copy.
func (m *FlatMap) Clone() *FlatMap {
	c := &FlatMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(c.keys, m.keys)
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Map returns the entries as a plain map.
func (m *FlatMap) Map() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
