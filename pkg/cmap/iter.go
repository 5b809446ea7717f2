package cmap

// Range calls fn for every entry until fn returns false.
//
// fn runs with the entry's shard read-locked and must not write to the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Values returns all values.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.Range(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// GetOrSet returns the existing value for key, or stores and returns value.
// The boolean reports whether the value was already present.
func (m *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[key]; ok {
		return existing, true
	}
	s.items[key] = value
	return value, false
}

// SetIfAbsent stores value only if key is not present and reports whether it
// did so.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	_, loaded := m.GetOrSet(key, value)
	return !loaded
}
