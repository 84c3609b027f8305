// Package app wires the application together: configuration, logging,
// storage tiers, the graph store, the credential ledger and the backend
// clients.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"

	"github.com/abzali/cue/internal/backend"
	"github.com/abzali/cue/internal/credentials"
	"github.com/abzali/cue/internal/domain"
	"github.com/abzali/cue/internal/generation"
	"github.com/abzali/cue/internal/graph"
	"github.com/abzali/cue/internal/logging"
	"github.com/abzali/cue/internal/model"
	"github.com/abzali/cue/internal/storage"
	"github.com/abzali/cue/internal/validation"
)

// Preference keys stored through the Fyne preferences API.
const (
	prefRememberMe        = "rememberMe"
	prefUserID            = "userId"
	prefGenerationTimeout = "generationTimeout"
)

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	config  *Config
	logger  *slog.Logger

	connManager *backend.ConnectionManager
	store       *graph.Store
	ledger      *credentials.Ledger
	adapter     *storage.Adapter
	generation  *generation.Client
	validation  *validation.Client

	state    *model.ApplicationState
	genState *model.GenerationUIState

	mu        sync.Mutex
	restoring bool
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	logger, err := logging.InitLogger("cue", cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("initializing Cue application",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage_path", cfg.StoragePath),
		slog.String("backend", cfg.BackendAddr),
	)

	storagePath := cfg.StoragePath
	if storagePath == "" {
		storagePath, err = storage.DefaultStoragePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine storage path: %w", err)
		}
	}

	remember := fyneApp.Preferences().BoolWithFallback(prefRememberMe, true)

	durable := storage.NewFileStore(storagePath, logger)
	session := storage.NewMemoryStore()
	adapter := storage.NewAdapter(durable, session, remember, logger)

	store := graph.NewStore(logger)
	ledger := credentials.NewLedger(logger)
	connManager := backend.NewConnectionManager(logger)

	genClient := generation.NewClient(connManager, logger)
	// A timeout chosen in the preferences dialog wins over the env default
	timeout := cfg.GenerationTimeout
	if secs := fyneApp.Preferences().FloatWithFallback(prefGenerationTimeout, 0); secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}
	genClient.SetTimeout(timeout)

	a := &App{
		fyneApp:     fyneApp,
		config:      cfg,
		logger:      logger,
		connManager: connManager,
		store:       store,
		ledger:      ledger,
		adapter:     adapter,
		generation:  genClient,
		validation:  validation.NewClient(connManager, logger),
		state:       model.NewApplicationState(),
		genState:    model.NewGenerationUIState(),
	}

	if userID := fyneApp.Preferences().String(prefUserID); userID != "" {
		adapter.SetUser(userID)
		_ = a.state.UserID.Set(userID)
	}

	store.OnChange(a.scheduleAutosave)

	// A typed description is part of the snapshot, so edits schedule an
	// autosave like graph mutations do. The listener fires once on
	// registration; muting covers that echo.
	a.withoutAutosave(func() {
		a.state.Description.AddListener(binding.NewDataListener(a.scheduleAutosave))
	})

	logger.Info("application initialized successfully")
	return a, nil
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("starting application")
	a.window.ShowAndRun()
}

// ConnectBackend dials the configured backend. Call from a goroutine;
// the connection manager reports progress through its state callback.
func (a *App) ConnectBackend(ctx context.Context) error {
	return a.connManager.Connect(ctx, backend.Options{
		Address: a.config.BackendAddr,
		UseTLS:  a.config.BackendTLS,
	})
}

// RestoreWorkspace loads the persisted snapshot for the active identity
// into the store, ledger and bindings. Returns false when nothing was
// saved. Restored values are not treated as pre-validated.
func (a *App) RestoreWorkspace() bool {
	snap := a.adapter.Load()
	if snap == nil {
		return false
	}

	a.withoutAutosave(func() {
		a.store.ReplaceAll(snap.Nodes, snap.Edges)
		if snap.Viewport != nil {
			a.store.SetViewport(*snap.Viewport)
		}
		_ = a.state.Description.Set(snap.WorkflowDescription)
		_ = a.state.GeneratedCode.Set(snap.GeneratedCode)
		_ = a.state.Instructions.Set(snap.Instructions)
	})
	a.ledger.Initialize(a.store.Nodes())
	a.ledger.RestoreValues(snap.Credentials)

	a.logger.Info("workspace restored",
		slog.String("key", a.adapter.Key()),
		slog.Int("nodes", len(snap.Nodes)))
	return true
}

// ApplyGeneration installs a generation result as the new authoritative
// graph and rebuilds the credential ledger, keeping values the user
// already typed for surviving fields.
func (a *App) ApplyGeneration(result generation.Result) {
	kept := a.ledger.Values()

	a.store.ReplaceAll(result.Nodes, result.Edges)
	a.ledger.Initialize(a.store.Nodes())
	a.ledger.RestoreValues(kept)

	_ = a.state.GeneratedCode.Set(result.GeneratedCode)
	_ = a.state.Instructions.Set(result.Instructions)

	a.ScheduleAutosave()
}

// NewWorkflow discards the current workspace: pending autosaves are
// cancelled, both storage tiers are cleared, and the in-memory state is
// reset. The viewport is kept so the camera does not jump.
func (a *App) NewWorkflow() {
	a.adapter.Clear()
	a.withoutAutosave(func() {
		a.store.Clear()
		_ = a.state.Description.Set("")
		_ = a.state.GeneratedCode.Set("")
		_ = a.state.Instructions.Set("")
	})
	a.ledger.Initialize(nil)

	a.logger.Info("workspace cleared")
}

// ScheduleAutosave debounce-writes the full current workspace.
func (a *App) ScheduleAutosave() {
	a.adapter.AutoSave(a.snapshotPatch())
}

// SaveNow flushes the full current workspace synchronously, for use on
// shutdown.
func (a *App) SaveNow() {
	a.adapter.CancelPending()
	a.adapter.Save(a.snapshotPatch())
}

func (a *App) snapshotPatch() domain.SnapshotPatch {
	description, _ := a.state.Description.Get()
	code, _ := a.state.GeneratedCode.Get()
	instructions, _ := a.state.Instructions.Get()
	vp := a.store.Viewport()

	return domain.SnapshotPatch{
		WorkflowDescription: &description,
		Nodes:               a.store.Nodes(),
		Edges:               a.store.Edges(),
		Credentials:         a.ledger.Values(),
		GeneratedCode:       &code,
		Instructions:        &instructions,
		Viewport:            &vp,
	}
}

// withoutAutosave runs fn with the graph change listener muted, for
// mutations that are echoes of stored data rather than edits.
func (a *App) withoutAutosave(fn func()) {
	a.mu.Lock()
	a.restoring = true
	a.mu.Unlock()
	fn()
	a.mu.Lock()
	a.restoring = false
	a.mu.Unlock()
}

// scheduleAutosave is the graph change listener.
func (a *App) scheduleAutosave() {
	a.mu.Lock()
	restoring := a.restoring
	a.mu.Unlock()
	if restoring {
		return
	}
	a.ScheduleAutosave()
}

// SetRememberMe flips the storage tier preference, migrating the stored
// snapshot when appropriate.
func (a *App) SetRememberMe(remember bool) {
	a.adapter.SetRememberMe(remember)
	a.fyneApp.Preferences().SetBool(prefRememberMe, remember)
}

// RememberMe reports the active tier preference.
func (a *App) RememberMe() bool {
	return a.adapter.RememberMe()
}

// SetGenerationTimeout applies a new request deadline and persists it so
// the next launch picks it up.
func (a *App) SetGenerationTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	a.generation.SetTimeout(d)
	a.fyneApp.Preferences().SetFloat(prefGenerationTimeout, d.Seconds())
}

// SetUser switches the persistence identity. The current workspace is
// flushed under the old key first.
func (a *App) SetUser(userID string) {
	a.SaveNow()
	a.adapter.SetUser(userID)
	a.fyneApp.Preferences().SetString(prefUserID, userID)
	_ = a.state.UserID.Set(userID)
	a.logger.Info("persistence identity switched", slog.String("key", a.adapter.Key()))
}

// Shutdown flushes state and closes the backend connection.
func (a *App) Shutdown() {
	a.SaveNow()
	if err := a.connManager.Disconnect(); err != nil {
		a.logger.Warn("disconnect on shutdown failed", slog.Any("error", err))
	}
	a.logger.Info("application shut down")
}

// ConnManager returns the connection manager for use by UI components.
func (a *App) ConnManager() *backend.ConnectionManager {
	return a.connManager
}

// Store returns the authoritative graph store.
func (a *App) Store() *graph.Store {
	return a.store
}

// Ledger returns the credential ledger.
func (a *App) Ledger() *credentials.Ledger {
	return a.ledger
}

// Generation returns the generation client.
func (a *App) Generation() *generation.Client {
	return a.generation
}

// Validation returns the validation client.
func (a *App) Validation() *validation.Client {
	return a.validation
}

// State returns the application state for use by UI components.
func (a *App) State() *model.ApplicationState {
	return a.state
}

// GenState returns the generation pipeline UI state.
func (a *App) GenState() *model.GenerationUIState {
	return a.genState
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}
