// Package bimap provides a map that can be queried in both directions.
package bimap

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

func New[K cmp.Ordered, V comparable]() *Map[K, V] {
	return &Map[K, V]{
		forward: make(map[K]V),
		reverse: make(map[V]K),
	}
}

// Map is a one-to-one mapping. Setting a key or value that is already
// mapped replaces the old pair.
type Map[K cmp.Ordered, V comparable] struct {
	forward map[K]V
	reverse map[V]K
}

// Set maps k to v, dropping any previous pair of k or of v.
func (m *Map[K, V]) Set(k K, v V) {
	if old, ok := m.forward[k]; ok {
		delete(m.reverse, old)
	}
	if old, ok := m.reverse[v]; ok {
		delete(m.forward, old)
	}
	m.forward[k] = v
	m.reverse[v] = k
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

func (m *Map[K, V]) GetByValue(v V) (K, bool) {
	k, ok := m.reverse[v]
	return k, ok
}

// All iterates the pairs in key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.forward[k]) {
				return
			}
		}
	}
}

// Keys returns the keys in order.
func (m *Map[K, V]) Keys() []K {
	return slices.Sorted(maps.Keys(m.forward))
}

func (m *Map[K, V]) Len() int {
	return len(m.forward)
}
