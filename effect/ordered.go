package effect

// orderedMap keeps insertion order for iteration and rejects duplicate keys by
// overwriting in place. Collections here hold a handful of entries, so the
// linear delete is fine.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{values: make(map[K]V)}
}

func (m *orderedMap[K, V]) set(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap[K, V]) get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *orderedMap[K, V]) delete(k K) bool {
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

// snapshot returns the keys in insertion order; callers may delete while
// walking it.
func (m *orderedMap[K, V]) snapshot() []K {
	return append([]K(nil), m.keys...)
}
