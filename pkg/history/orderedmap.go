package history

// OrderedMap is a mapping that remembers key insertion order. Aggregations
// return it because their key order is part of the contract: authors appear
// in first-encounter order, dates in ascending order.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set stores the value for the key. A new key is appended to the key order;
// setting an existing key overwrites the value and keeps its position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value for the key and whether it is present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	value, ok := m.values[key]

	return value, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// Values returns the values in key order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, key := range m.keys {
		values = append(values, m.values[key])
	}

	return values
}
