package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/abzali/cue/internal/domain"
)

// GuestKey is the storage key used when no user is signed in.
const GuestKey = "guest"

// autoSaveDelay is the debounce window for AutoSave.
const autoSaveDelay = time.Second

// Adapter is the workspace persistence layer. It merge-writes partial
// snapshots into the tier selected by the "remember me" preference,
// migrates data when that preference flips, and never propagates
// storage failures: the in-memory state stays correct even when the
// durable copy lags.
type Adapter struct {
	durable SnapshotStore
	session SnapshotStore
	logger  *slog.Logger

	mu       sync.Mutex
	userID   string
	remember bool

	debouncer *Debouncer
}

// NewAdapter creates a persistence adapter over the two tiers.
func NewAdapter(durable, session SnapshotStore, remember bool, logger *slog.Logger) *Adapter {
	return &Adapter{
		durable:   durable,
		session:   session,
		remember:  remember,
		logger:    logger,
		debouncer: NewDebouncer(autoSaveDelay),
	}
}

// SetUser switches the storage key to the given user id. An empty id
// reverts to the guest key.
func (a *Adapter) SetUser(id string) {
	a.mu.Lock()
	a.userID = id
	a.mu.Unlock()
}

// Key returns the active storage key.
func (a *Adapter) Key() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.keyLocked()
}

func (a *Adapter) keyLocked() string {
	if a.userID == "" {
		return GuestKey
	}
	return a.userID
}

func (a *Adapter) tiersLocked() (active, other SnapshotStore) {
	if a.remember {
		return a.durable, a.session
	}
	return a.session, a.durable
}

// Save merge-writes the patch into the stored snapshot for the active
// key, stamping LastSaved. Failures are logged and swallowed.
func (a *Adapter) Save(patch domain.SnapshotPatch) {
	a.mu.Lock()
	key := a.keyLocked()
	active, _ := a.tiersLocked()
	a.mu.Unlock()

	snap := domain.Snapshot{}
	if existing, err := active.Load(key); err == nil && existing != nil {
		snap = *existing
	}
	snap.Merge(patch)
	snap.LastSaved = time.Now()

	if err := active.Save(key, snap); err != nil {
		a.logger.Warn("snapshot save failed",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	a.logger.Debug("snapshot saved", slog.String("key", key))
}

// Load reads the snapshot for the active key. Absent or malformed data
// yields nil, never an error: a corrupt file reads as "nothing saved".
func (a *Adapter) Load() *domain.Snapshot {
	a.mu.Lock()
	key := a.keyLocked()
	active, _ := a.tiersLocked()
	a.mu.Unlock()

	snap, err := active.Load(key)
	if err != nil {
		a.logger.Debug("no usable snapshot",
			slog.String("key", key),
			slog.Any("error", err))
		return nil
	}
	return snap
}

// Clear removes the snapshot from BOTH tiers, defending against a stale
// copy resurfacing after the preference flips. Any pending autosave is
// cancelled first so a debounced write cannot resurrect cleared data.
func (a *Adapter) Clear() {
	a.debouncer.Cancel()

	a.mu.Lock()
	key := a.keyLocked()
	a.mu.Unlock()

	for _, tier := range []SnapshotStore{a.durable, a.session} {
		if err := tier.Delete(key); err != nil {
			a.logger.Warn("snapshot delete failed",
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// AutoSave schedules a debounced Save. A newer AutoSave supersedes the
// pending one. The returned handle cancels the pending save, for use on
// component teardown.
func (a *Adapter) AutoSave(patch domain.SnapshotPatch) (cancel func()) {
	return a.debouncer.Schedule(func() {
		a.Save(patch)
	})
}

// CancelPending discards any scheduled autosave.
func (a *Adapter) CancelPending() {
	a.debouncer.Cancel()
}

// SetRememberMe records the new tier preference and migrates the stored
// snapshot when the preference actually changes: if the old tier holds
// data and the new tier does not, the data moves over. Best-effort;
// failures are logged, never surfaced.
func (a *Adapter) SetRememberMe(remember bool) {
	a.mu.Lock()
	if remember == a.remember {
		a.mu.Unlock()
		return
	}
	key := a.keyLocked()
	oldTier, _ := a.tiersLocked()
	a.remember = remember
	newTier, _ := a.tiersLocked()
	a.mu.Unlock()

	if _, err := newTier.Load(key); err == nil {
		// New tier already has data; leave both copies alone.
		return
	}
	snap, err := oldTier.Load(key)
	if err != nil || snap == nil {
		return
	}
	if err := newTier.Save(key, *snap); err != nil {
		a.logger.Warn("snapshot migration failed",
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	if err := oldTier.Delete(key); err != nil {
		a.logger.Warn("stale snapshot cleanup failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
	a.logger.Info("snapshot migrated between storage tiers",
		slog.String("key", key),
		slog.Bool("remember", remember))
}

// RememberMe reports the active tier preference.
func (a *Adapter) RememberMe() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remember
}
