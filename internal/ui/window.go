package ui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/backend"
	"github.com/abzali/cue/internal/canvas"
	"github.com/abzali/cue/internal/credentials"
	"github.com/abzali/cue/internal/domain"
	apperrors "github.com/abzali/cue/internal/errors"
	"github.com/abzali/cue/internal/generation"
	"github.com/abzali/cue/internal/graph"
	"github.com/abzali/cue/internal/model"
	"github.com/abzali/cue/internal/ui/codeview"
	"github.com/abzali/cue/internal/ui/credpanel"
	"github.com/abzali/cue/internal/ui/describe"
	uierrors "github.com/abzali/cue/internal/ui/errors"
	"github.com/abzali/cue/internal/ui/settings"
	"github.com/abzali/cue/internal/ui/status"
	"github.com/abzali/cue/internal/validation"
)

// AppController defines the interface for app-level operations needed by the UI.
type AppController interface {
	State() *model.ApplicationState
	GenState() *model.GenerationUIState
	Logger() *slog.Logger
	ConnManager() *backend.ConnectionManager
	Store() *graph.Store
	Ledger() *credentials.Ledger
	Generation() *generation.Client
	Validation() *validation.Client
	ConnectBackend(ctx context.Context) error
	RestoreWorkspace() bool
	ApplyGeneration(result generation.Result)
	NewWorkflow()
	ScheduleAutosave()
	SaveNow()
	RememberMe() bool
	SetRememberMe(remember bool)
	SetGenerationTimeout(d time.Duration)
	Shutdown()
	FyneApp() fyne.App
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	window fyne.Window
	state  *model.ApplicationState
	logger *slog.Logger
	app    AppController

	connState *model.ConnectionUIState

	board         *canvas.Board
	synchronizer  *canvas.Synchronizer
	describePanel *describe.Panel
	credPanel     *credpanel.Panel
	codePanel     *codeview.Panel
	statusBar     *status.Bar

	mu        sync.Mutex
	genCancel context.CancelFunc
}

// NewMainWindow creates the main window. Layout:
//
//	┌──────────────────────────────────────┬─────────────┐
//	│              Toolbar                 │             │
//	├──────────────────────────────────────┤             │
//	│                                      │ Credentials │
//	│            Canvas board              │   Panel     │
//	│                                      │             │
//	├──────────────────┬───────────────────┤             │
//	│  Describe Panel  │    Code View      │             │
//	├──────────────────┴───────────────────┴─────────────┤
//	│                    Status Bar                      │
//	└────────────────────────────────────────────────────┘
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow("Cue - Workflow Automation")

	w := &MainWindow{
		window:    window,
		state:     app.State(),
		logger:    app.Logger(),
		app:       app,
		connState: model.NewConnectionUIState(),
	}

	w.board = canvas.NewBoard()
	w.synchronizer = canvas.NewSynchronizer(app.Store(), w.board, w.logger)
	w.board.SetCallbacks(w.synchronizer.Callbacks())

	w.describePanel = describe.NewPanel(w.state)
	w.credPanel = credpanel.NewPanel(app.Ledger(), w.logger)
	w.codePanel = codeview.NewPanel(w.state, window.Clipboard())
	w.statusBar = status.NewBar(w.connState, app.GenState())

	w.wireCallbacks()
	w.SetContent()
	w.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(1280, 840))
	window.SetCloseIntercept(func() {
		w.app.Shutdown()
		window.Close()
	})

	return w
}

// Start restores the saved workspace and dials the backend. Call once
// before showing the window.
func (w *MainWindow) Start() {
	if w.app.RestoreWorkspace() {
		w.credPanel.Refresh()
	}

	w.app.ConnManager().SetStateCallback(func(state backend.ConnectionState, message string) {
		var uiState string
		switch state {
		case backend.StateConnecting:
			uiState = "connecting"
		case backend.StateConnected:
			uiState = "connected"
		case backend.StateError:
			uiState = "error"
		default:
			uiState = "disconnected"
		}
		_ = w.connState.State.Set(uiState)
		_ = w.connState.Message.Set(message)
	})

	go func() {
		if err := w.app.ConnectBackend(context.Background()); err != nil {
			w.logger.Warn("initial backend connection failed", slog.Any("error", err))
		}
	}()
}

// wireCallbacks sets up all the event handlers and connects components.
func (w *MainWindow) wireCallbacks() {
	w.describePanel.SetOnGenerate(w.handleGenerate)

	w.credPanel.SetOnValueChanged(func(string) {
		w.app.ScheduleAutosave()
	})
	w.credPanel.SetOnValidate(w.handleValidate)

	// Mirror the graph selection into the side panel binding
	w.app.Store().OnChange(func() {
		_ = w.state.SelectedNode.Set(w.app.Store().Selected())
	})
}

// handleGenerate runs a generation request off the UI goroutine and
// installs the result as the new authoritative graph.
func (w *MainWindow) handleGenerate(description string) {
	if description == "" {
		uierrors.ShowError(apperrors.ValidationError{
			Field:   "description",
			Message: "Describe the workflow first",
		}, w.window)
		return
	}

	w.mu.Lock()
	if w.genCancel != nil {
		w.mu.Unlock()
		w.logger.Debug("generation already in flight")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.genCancel = cancel
	w.mu.Unlock()

	_ = w.state.Generating.Set(true)
	_ = w.app.GenState().State.Set("generating")
	_ = w.app.GenState().Message.Set("")

	go func() {
		result, err := w.app.Generation().Generate(ctx, description)

		w.mu.Lock()
		w.genCancel = nil
		w.mu.Unlock()

		fyne.Do(func() {
			_ = w.state.Generating.Set(false)

			if err != nil {
				w.logger.Error("generation failed", slog.Any("error", err))
				_ = w.app.GenState().State.Set("error")
				_ = w.app.GenState().Message.Set(err.Error())
				uierrors.ShowClassifiedError(err, w.window, func() {
					w.handleGenerate(description)
				})
				return
			}

			w.app.ApplyGeneration(result)
			w.credPanel.Refresh()
			_ = w.app.GenState().State.Set("ready")
			_ = w.app.GenState().Message.Set("")
		})
	}()
}

// handleValidate sends credential values to the backend and folds the
// results into the ledger and per-node statuses.
func (w *MainWindow) handleValidate(fieldIDs []string) {
	go func() {
		results, err := w.app.Validation().Validate(context.Background(), fieldIDs, w.app.Ledger())

		fyne.Do(func() {
			if err != nil {
				w.logger.Error("credential validation failed", slog.Any("error", err))
				uierrors.ShowClassifiedError(err, w.window, func() {
					w.handleValidate(fieldIDs)
				})
				return
			}

			w.app.Ledger().ApplyResults(results)
			w.applyNodeStatuses()
			w.credPanel.Refresh()
			w.app.ScheduleAutosave()
		})
	}()
}

// applyNodeStatuses derives each node's validation status from its
// ledger fields: any invalid field marks the node invalid, a fully
// verified field set marks it valid, anything else stays pending.
func (w *MainWindow) applyNodeStatuses() {
	fieldsByNode := make(map[string][]domain.CredentialField)
	for _, f := range w.app.Ledger().Fields() {
		fieldsByNode[f.NodeID] = append(fieldsByNode[f.NodeID], f)
	}

	for _, n := range w.app.Store().Nodes() {
		fields := fieldsByNode[n.ID]
		if len(fields) == 0 {
			continue
		}

		status := domain.StatusValid
		message := ""
		for _, f := range fields {
			switch {
			case f.Valid != nil && !*f.Valid:
				status = domain.StatusInvalid
				message = f.ValidationMessage
			case f.Valid == nil:
				if status != domain.StatusInvalid {
					status = domain.StatusPending
				}
			}
		}

		if n.Data.ValidationStatus != status || n.Data.ValidationMessage != message {
			s, m := status, message
			w.app.Store().UpdateNodeData(n.ID, domain.NodeDataPatch{
				ValidationStatus:  &s,
				ValidationMessage: &m,
			})
		}
	}
}

// handleNewWorkflow confirms and clears the workspace.
func (w *MainWindow) handleNewWorkflow() {
	w.app.NewWorkflow()
	w.credPanel.Refresh()
}

// handleCancelGeneration aborts an in-flight generation request.
func (w *MainWindow) handleCancelGeneration() {
	w.mu.Lock()
	cancel := w.genCancel
	w.genCancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		w.logger.Info("generation cancelled by user")
	}
}

// showPreferences opens the settings dialog.
func (w *MainWindow) showPreferences() {
	settings.ShowPreferencesDialog(w.app.FyneApp(), w.window, w.app.RememberMe(), settings.PreferencesCallbacks{
		OnThemeChange: func(mode string) {
			ApplyTheme(w.app.FyneApp(), mode)
		},
		OnRememberMeChange: func(remember bool) {
			w.app.SetRememberMe(remember)
		},
		OnTimeoutChange: func(timeout time.Duration) {
			w.app.SetGenerationTimeout(timeout)
		},
	})
}

// SetContent builds and sets the main window layout.
func (w *MainWindow) SetContent() {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), w.handleNewWorkflow),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), w.showPreferences),
		widget.NewToolbarAction(theme.HelpIcon(), func() { ShowShortcutDialog(w.window) }),
		widget.NewToolbarAction(theme.InfoIcon(), func() { ShowAboutDialog(w.window) }),
	)

	bottomSplit := container.NewHSplit(w.describePanel, w.codePanel)
	bottomSplit.SetOffset(0.4)

	centerSplit := container.NewVSplit(w.board, bottomSplit)
	centerSplit.SetOffset(0.62)

	mainSplit := container.NewHSplit(
		container.NewBorder(toolbar, nil, nil, nil, centerSplit),
		w.credPanel,
	)
	mainSplit.SetOffset(0.75)

	w.window.SetContent(container.NewBorder(
		nil,
		w.statusBar,
		nil,
		nil,
		mainSplit,
	))
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
