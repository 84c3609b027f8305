// Package storage persists workspace snapshots across two tiers: a
// durable file-backed store and a session-scoped in-memory store. The
// Adapter selects the tier from the user's "remember me" preference and
// shields the rest of the application from storage failures.
package storage

import "github.com/abzali/cue/internal/domain"

// SnapshotStore is one storage tier: a string-keyed store of workspace
// snapshots.
type SnapshotStore interface {
	Save(key string, snap domain.Snapshot) error
	Load(key string) (*domain.Snapshot, error)
	Delete(key string) error
}
