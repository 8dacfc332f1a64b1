package reflection

// OrderedMap is a string-keyed map that remembers insertion order. Setting an
// existing key replaces its value and keeps its original position.
type OrderedMap[V any] struct {
	keys   []string
	values []V
	index  map[string]int
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: make(map[string]int)}
}

func (m *OrderedMap[V]) Set(key string, value V) {
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *OrderedMap[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in insertion order.
func (m *OrderedMap[V]) Values() []V {
	out := make([]V, len(m.values))
	copy(out, m.values)
	return out
}
