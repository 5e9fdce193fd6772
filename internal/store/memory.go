package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryEntry struct {
	data    []byte
	version int64
}

// MemoryBackend keeps documents in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string]memoryEntry)}
}

func (m *MemoryBackend) Load(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.docs[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, entry.version, nil
}

func (m *MemoryBackend) Save(_ context.Context, key string, data []byte, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs[key].version != expectedVersion {
		return ErrConflict
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[key] = memoryEntry{data: stored, version: expectedVersion + 1}
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Purge(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[string]memoryEntry)
	return nil
}
