package storage

import (
	"fmt"
	"sync"

	"github.com/abzali/cue/internal/domain"
	cueerrors "github.com/abzali/cue/internal/errors"
)

// MemoryStore is the session tier: snapshots live only as long as the
// process. Also used as a test double for the durable tier.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]domain.Snapshot)}
}

// Save stores the snapshot under the given key.
func (m *MemoryStore) Save(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid storage key: %w", err)
	}
	m.mu.Lock()
	m.snapshots[key] = snap
	m.mu.Unlock()
	return nil
}

// Load returns the snapshot for the given key, or ErrSnapshotNotFound.
func (m *MemoryStore) Load(key string) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, cueerrors.ErrSnapshotNotFound)
	}
	return &snap, nil
}

// Delete removes the snapshot for the given key. Absent keys are fine.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.snapshots, key)
	m.mu.Unlock()
	return nil
}
