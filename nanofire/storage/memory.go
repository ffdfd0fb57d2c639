package storage

import (
	"context"
	"sync"
)

// Memory is an Adapter that keeps everything in a map.
// Nothing survives the process; it backs tests and ephemeral stores.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	// Optional errors for simulating backend failures
	GetError    error
	SetError    error
	RemoveError error
}

// NewMemory creates an empty in-memory adapter
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements Adapter.Get
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetError != nil {
		return "", false, m.GetError
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Adapter.Set
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if m.SetError != nil {
		return m.SetError
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove implements Adapter.Remove
func (m *Memory) Remove(ctx context.Context, key string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close implements Adapter.Close
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored keys, including the index (for testing)
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Raw returns the stored string for key (for testing)
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
