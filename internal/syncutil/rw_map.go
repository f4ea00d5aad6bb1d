// Package syncutil contains concurrency-safe containers.
package syncutil

import (
	"maps"
	"sync"
)

// RWMap is a map protected by a [sync.RWMutex] for read-heavy registries.
// The zero value is ready to use.
type RWMap[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// NewRWMap returns a map holding a copy of data.
func NewRWMap[K comparable, V any](data map[K]V) *RWMap[K, V] {
	return &RWMap[K, V]{data: maps.Clone(data)}
}

func (m *RWMap[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *RWMap[K, V]) Set(key K, val V) *RWMap[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[K]V)
	}
	m.data[key] = val
	return m
}

func (m *RWMap[K, V]) Len() int {
	if m == nil {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
