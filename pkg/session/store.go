package session

import (
	"context"
	"sync"
)

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// WritableStore is implemented by stores the CLI can seed.
type WritableStore interface {
	Store
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ WritableStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with a copy of values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	seed := make(map[string]string, len(values))
	for k, v := range values {
		seed[k] = v
	}
	return &MemoryStore{values: seed}
}

// Get returns the value for key or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
