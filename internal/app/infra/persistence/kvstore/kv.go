package kvstore

import (
	"context"
	"sync"
)

// KV is the key/value primitive the store is built on. Values are whole JSON documents.
type KV interface {
	// Get returns nil without error when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update replaces the value of key with fn(current) atomically with respect to other
	// Update calls on the same key. current is nil when key is absent. An error from fn
	// aborts the write and is returned unchanged.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	Close() error
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryKV) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.values[key])
	if err != nil {
		return err
	}
	m.values[key] = next
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
