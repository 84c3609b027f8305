package app

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	cfg := DefaultConfig()
	cfg.StoragePath = t.TempDir()

	a, err := New(fyneApp, cfg)
	require.NoError(t, err)
	return a
}

func TestNew_TimeoutPreferenceWinsOverDefault(t *testing.T) {
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)
	fyneApp.Preferences().SetFloat(prefGenerationTimeout, 120)

	cfg := DefaultConfig()
	cfg.StoragePath = t.TempDir()

	a, err := New(fyneApp, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, a.Generation().Timeout(),
		"a saved timeout preference must reach the generation client")
}

func TestApp_SetGenerationTimeoutPersists(t *testing.T) {
	a := newTestApp(t)

	a.SetGenerationTimeout(90 * time.Second)

	assert.Equal(t, 90*time.Second, a.Generation().Timeout())
	assert.Equal(t, 90.0, a.fyneApp.Preferences().Float(prefGenerationTimeout))

	a.SetGenerationTimeout(0)
	assert.Equal(t, 90*time.Second, a.Generation().Timeout(), "a non-positive timeout is rejected")
}

func TestApp_DescriptionEditSchedulesAutosave(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.state.Description.Set("email receipts for stripe payments"))

	require.Eventually(t, func() bool {
		snap := a.adapter.Load()
		return snap != nil && snap.WorkflowDescription == "email receipts for stripe payments"
	}, 3*time.Second, 50*time.Millisecond,
		"a typed description must reach the debounced snapshot without any other mutation")
}

func TestApp_NewWorkflowDoesNotResurrectSnapshot(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.state.Description.Set("short lived"))

	a.NewWorkflow()

	// Wait past the debounce window; the cleared workspace must stay gone
	time.Sleep(1200 * time.Millisecond)
	assert.Nil(t, a.adapter.Load())
}

func TestApp_SaveNowSkipsDebounce(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.state.Description.Set("save immediately"))

	a.SaveNow()

	snap := a.adapter.Load()
	require.NotNil(t, snap)
	assert.Equal(t, "save immediately", snap.WorkflowDescription)
}
