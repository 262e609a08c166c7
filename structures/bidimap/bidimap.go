package bidimap

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrKeyExists   = errors.New("key already mapped")
	ErrValueExists = errors.New("value already mapped")
)

// BidiMap represents a generic, concurrency safe, bidirectional map between key and value.
// The keys and values are stored twice, once in each mapping.
type BidiMap[K comparable, V comparable] struct {
	mux  sync.RWMutex
	ktov map[K]V
	vtok map[V]K
}

// New creates a new [BidiMap] and initializes the internal maps.
// This isn't strictly required, because non-nil instances will be initialized upon first use anyway.
func New[K comparable, V comparable]() *BidiMap[K, V] {
	m := new(BidiMap[K, V])
	m.mux.Lock()
	defer m.mux.Unlock()
	m.init()
	return m
}

// init must be called with the write lock held.
func (m *BidiMap[K, V]) init() {
	if m.ktov == nil {
		m.ktov = map[K]V{}
	}
	if m.vtok == nil {
		m.vtok = map[V]K{}
	}
}

// Add maps key to val in both directions, replacing any prior association of either.
func (m *BidiMap[K, V]) Add(key K, val V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.init()
	if old, ok := m.ktov[key]; ok {
		delete(m.vtok, old)
	}
	if old, ok := m.vtok[val]; ok {
		delete(m.ktov, old)
	}
	m.ktov[key] = val
	m.vtok[val] = key
}

// AddUnique maps key to val only if neither is mapped already.
// Adding the exact same association twice is not an error.
// An [ErrKeyExists] or [ErrValueExists] error is returned if either side is already associated with something else.
func (m *BidiMap[K, V]) AddUnique(key K, val V) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.init()
	if existing, ok := m.ktov[key]; ok {
		if existing == val {
			return nil
		}
		return fmt.Errorf("%w: %v is mapped to %v", ErrKeyExists, key, existing)
	}
	if existing, ok := m.vtok[val]; ok {
		return fmt.Errorf("%w: %v is mapped to %v", ErrValueExists, val, existing)
	}
	m.ktov[key] = val
	m.vtok[val] = key
	return nil
}

func (m *BidiMap[K, V]) ValueOk(key K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	val, ok := m.ktov[key]
	return val, ok
}

func (m *BidiMap[K, V]) Value(key K) V {
	val, _ := m.ValueOk(key)
	return val
}

func (m *BidiMap[K, V]) HasValue(val V) bool {
	_, ok := m.KeyOk(val)
	return ok
}

func (m *BidiMap[K, V]) KeyOk(value V) (K, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	key, ok := m.vtok[value]
	return key, ok
}

func (m *BidiMap[K, V]) Key(value V) K {
	key, _ := m.KeyOk(value)
	return key
}

func (m *BidiMap[K, V]) HasKey(key K) bool {
	_, ok := m.ValueOk(key)
	return ok
}

// Len returns the number of associations.
func (m *BidiMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.ktov)
}

// Keys returns all keys in an unspecified order.
func (m *BidiMap[K, V]) Keys() []K {
	m.mux.RLock()
	defer m.mux.RUnlock()
	keys := make([]K, 0, len(m.ktov))
	for k := range m.ktov {
		keys = append(keys, k)
	}
	return keys
}
