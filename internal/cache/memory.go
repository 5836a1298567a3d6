package cache

import (
	"context"
	"sync"
)

// MemoryStore implements a process-local cache
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get retrieves a value from the cache
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[Key(key)]
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.data[Key(key)] = stored
	m.mu.Unlock()
	return nil
}

// Clear removes all values from the cache
func (m *MemoryStore) Clear(ctx context.Context) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.data)
	m.data = make(map[string][]byte)
	return n, nil
}

// Len returns the number of stored records
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close is a no-op for memory stores
func (m *MemoryStore) Close() error {
	return nil
}

// NopStore never stores anything. Every Get is a miss.
type NopStore struct{}

// Get always reports a miss
func (NopStore) Get(_ context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss{Key: key}
}

// Set discards the value
func (NopStore) Set(context.Context, string, []byte) error { return nil }

// Clear removes nothing
func (NopStore) Clear(context.Context) (int, error) { return 0, nil }

// Close is a no-op
func (NopStore) Close() error { return nil }
