// Package kv provides an in-memory domain.KeyValueStore for ephemeral runs
// (earnbox serve --in-memory) and tests.
package kv

import (
	"errors"
	"sync"

	"github.com/earnbox/earnbox/internal/domain"
)

// ErrInjected is returned by Get/Set while a failure is injected.
var ErrInjected = errors.New("kv: injected failure")

// Memory is a map-backed key-value store. Values are copied on the way in
// and out so callers can never alias stored bytes.
type Memory struct {
	mu         sync.RWMutex
	data       map[string][]byte
	failReads  bool
	failWrites bool
	writes     int
}

var _ domain.KeyValueStore = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failReads {
		return nil, false, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrInjected
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Writes returns the number of successful Set calls.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// FailReads makes every Get return ErrInjected while on is true.
func (m *Memory) FailReads(on bool) {
	m.mu.Lock()
	m.failReads = on
	m.mu.Unlock()
}

// FailWrites makes every Set return ErrInjected while on is true.
func (m *Memory) FailWrites(on bool) {
	m.mu.Lock()
	m.failWrites = on
	m.mu.Unlock()
}
