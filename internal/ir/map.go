package ir

// Entry is one key/value pair of a Map.
type Entry[K comparable] struct {
	Key   K
	Value Handle
}

// Map is an insertion-ordered map from keys to handles with an optional
// default. Setting an existing key replaces its value in place.
type Map[K comparable] struct {
	entries []Entry[K]
	index   map[K]int
	Default Handle
}

// NewMap returns an empty map.
func NewMap[K comparable]() *Map[K] {
	return &Map[K]{index: make(map[K]int)}
}

// Set associates k with v.
func (m *Map[K]) Set(k K, v Handle) {
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry[K]{Key: k, Value: v})
}

// Get returns the value for k, falling back to Default when allowDefault is set.
func (m *Map[K]) Get(k K, allowDefault bool) Handle {
	if m == nil {
		return InvalidHandle
	}
	if i, ok := m.index[k]; ok {
		return m.entries[i].Value
	}
	if allowDefault {
		return m.Default
	}
	return InvalidHandle
}

// Len returns the number of explicit entries.
func (m *Map[K]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// At returns the i-th entry in insertion order (0-based).
func (m *Map[K]) At(i int) Entry[K] { return m.entries[i] }

// Entries returns a copy of the entries in insertion order.
func (m *Map[K]) Entries() []Entry[K] {
	if m == nil {
		return nil
	}
	out := make([]Entry[K], len(m.entries))
	copy(out, m.entries)
	return out
}

// Values returns the values in insertion order.
func (m *Map[K]) Values() []Handle {
	if m == nil {
		return nil
	}
	out := make([]Handle, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Value
	}
	return out
}
