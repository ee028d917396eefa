package runtime

// OrderedMap is a hand-rolled insertion-ordered string-keyed map. JMESPath
// pins object key iteration to insertion order (see DESIGN.md's Open
// Questions section), so the default value model cannot use a bare Go
// map[string]any for objects; this is the smallest structure that adds
// ordering on top of a map without pulling in a third-party container
// type the example corpus never actually imports.
type OrderedMap struct {
	index   map[string]int
	entries []entry
}

type entry struct {
	key   string
	value any
}

// NewOrderedMap returns an empty, ready-to-use OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[string]int)}
}

// Set inserts key with value, or overwrites it in place if key already
// exists, preserving its original position.
func (m *OrderedMap) Set(key string, value any) *OrderedMap {
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value
		return m
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})
	return m
}

// Get returns the value stored for key, if present.
func (m *OrderedMap) Get(key string) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].value, true
}

// Len reports the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.entries)
}

// Keys returns the object's keys in insertion order.
func (m *OrderedMap) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns the object's values in insertion order.
func (m *OrderedMap) Values() []any {
	values := make([]any, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.value
	}
	return values
}

// Range iterates entries in insertion order, stopping early if fn returns
// false.
func (m *OrderedMap) Range(fn func(key string, value any) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}
