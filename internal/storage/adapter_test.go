package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abzali/cue/internal/domain"
	"github.com/abzali/cue/internal/logging"
)

func strPtr(s string) *string { return &s }

func newTestAdapter(remember bool) (*Adapter, *MemoryStore, *MemoryStore) {
	durable := NewMemoryStore()
	session := NewMemoryStore()
	a := NewAdapter(durable, session, remember, logging.NewNopLogger())
	a.debouncer = NewDebouncer(20 * time.Millisecond)
	return a, durable, session
}

func TestAdapter_SaveLoadRoundTrip(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	nodes := []domain.Node{{ID: "n1", Data: domain.NodeData{
		Name:             "Webhook trigger",
		ServiceType:      domain.ServiceWebhook,
		ValidationStatus: domain.StatusPending,
	}}}
	edges := []domain.Edge{{ID: "e1", Source: "n1", Target: "n1"}}

	a.Save(domain.SnapshotPatch{
		WorkflowDescription: strPtr("on stripe payment, send email"),
		Nodes:               nodes,
		Edges:               edges,
	})

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "on stripe payment, send email", snap.WorkflowDescription)
	assert.Equal(t, nodes, snap.Nodes)
	assert.Equal(t, edges, snap.Edges)
	assert.False(t, snap.LastSaved.IsZero(), "Save must stamp LastSaved")
}

func TestAdapter_SaveMergesPartial(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("first")})
	a.Save(domain.SnapshotPatch{GeneratedCode: strPtr("print('hi')")})

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "first", snap.WorkflowDescription, "merge must keep earlier fields")
	assert.Equal(t, "print('hi')", snap.GeneratedCode)
}

func TestAdapter_LoadAbsentReturnsNil(t *testing.T) {
	a, _, _ := newTestAdapter(true)
	assert.Nil(t, a.Load())
}

func TestAdapter_LoadMalformedReturnsNil(t *testing.T) {
	dir := t.TempDir()
	durable := NewFileStore(dir, logging.NewNopLogger())
	a := NewAdapter(durable, NewMemoryStore(), true, logging.NewNopLogger())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, workspacesDir), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, workspacesDir, "guest.json"),
		[]byte("{definitely not json"), 0644))

	assert.Nil(t, a.Load(), "corrupt snapshot must read as no data, not an error")
}

func TestAdapter_TierSelection(t *testing.T) {
	a, durable, session := newTestAdapter(false)

	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("session only")})

	_, err := session.Load(GuestKey)
	assert.NoError(t, err, "remember=false writes to the session tier")
	_, err = durable.Load(GuestKey)
	assert.Error(t, err, "durable tier must stay empty")
}

func TestAdapter_ClearRemovesBothTiers(t *testing.T) {
	a, durable, session := newTestAdapter(true)

	// Plant data in both tiers under the same key
	require.NoError(t, durable.Save(GuestKey, domain.Snapshot{WorkflowDescription: "d"}))
	require.NoError(t, session.Save(GuestKey, domain.Snapshot{WorkflowDescription: "s"}))

	a.Clear()

	_, err := durable.Load(GuestKey)
	assert.Error(t, err)
	_, err = session.Load(GuestKey)
	assert.Error(t, err)
}

func TestAdapter_MigrationLaw(t *testing.T) {
	a, durable, session := newTestAdapter(false)

	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("migrate me")})

	a.SetRememberMe(true)

	snap := a.Load()
	require.NotNil(t, snap, "data must be readable from the durable tier after migration")
	assert.Equal(t, "migrate me", snap.WorkflowDescription)

	_, err := session.Load(GuestKey)
	assert.Error(t, err, "session tier must no longer hold the snapshot")
	_, err = durable.Load(GuestKey)
	assert.NoError(t, err)
}

func TestAdapter_MigrationSkippedWhenTargetHasData(t *testing.T) {
	a, durable, session := newTestAdapter(false)

	require.NoError(t, session.Save(GuestKey, domain.Snapshot{WorkflowDescription: "old"}))
	require.NoError(t, durable.Save(GuestKey, domain.Snapshot{WorkflowDescription: "newer"}))

	a.SetRememberMe(true)

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "newer", snap.WorkflowDescription, "existing target data wins")
	_, err := session.Load(GuestKey)
	assert.NoError(t, err, "source copy is left alone when no migration happens")
}

func TestAdapter_SetRememberMeSameValueIsNoOp(t *testing.T) {
	a, _, session := newTestAdapter(false)
	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("stay")})

	a.SetRememberMe(false)

	_, err := session.Load(GuestKey)
	assert.NoError(t, err)
}

func TestAdapter_AutoSaveDebounces(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	a.AutoSave(domain.SnapshotPatch{WorkflowDescription: strPtr("x")})
	assert.Nil(t, a.Load(), "nothing persisted before the debounce window elapses")

	time.Sleep(60 * time.Millisecond)

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "x", snap.WorkflowDescription)
}

func TestAdapter_AutoSaveSuperseded(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	a.AutoSave(domain.SnapshotPatch{WorkflowDescription: strPtr("stale")})
	a.AutoSave(domain.SnapshotPatch{WorkflowDescription: strPtr("fresh")})

	time.Sleep(60 * time.Millisecond)

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "fresh", snap.WorkflowDescription, "newer autosave replaces the pending one")
}

func TestAdapter_ClearCancelsPendingAutoSave(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	a.AutoSave(domain.SnapshotPatch{WorkflowDescription: strPtr("zombie")})
	a.Clear()

	time.Sleep(60 * time.Millisecond)

	assert.Nil(t, a.Load(), "a debounced write must not resurrect cleared data")
}

func TestAdapter_AutoSaveCancelHandle(t *testing.T) {
	a, _, _ := newTestAdapter(true)

	cancel := a.AutoSave(domain.SnapshotPatch{WorkflowDescription: strPtr("unmounted")})
	cancel()

	time.Sleep(60 * time.Millisecond)

	assert.Nil(t, a.Load())
}

func TestAdapter_UserKeySwitch(t *testing.T) {
	a, durable, _ := newTestAdapter(true)

	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("guest work")})
	a.SetUser("user-7")
	a.Save(domain.SnapshotPatch{WorkflowDescription: strPtr("user work")})

	snap := a.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "user work", snap.WorkflowDescription)

	guestSnap, err := durable.Load(GuestKey)
	require.NoError(t, err)
	assert.Equal(t, "guest work", guestSnap.WorkflowDescription)
}
