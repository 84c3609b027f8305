package model

import "fyne.io/fyne/v2/data/binding"

// ApplicationState represents the centralized UI state with Fyne data
// bindings. All panels bind to these values for reactive updates.
// Graph state lives in the graph store, not here; these bindings carry
// only what the chrome around the canvas needs.
type ApplicationState struct {
	// Workflow description being edited
	Description binding.String

	// Generation output
	GeneratedCode binding.String
	Instructions  binding.String

	// Selection mirror for the side panels
	SelectedNode binding.String

	// True while a generation request is in flight
	Generating binding.Bool

	// Signed-in user id, empty for guest
	UserID binding.String
}

// NewApplicationState creates an ApplicationState with initialized bindings.
func NewApplicationState() *ApplicationState {
	generating := binding.NewBool()
	_ = generating.Set(false)

	return &ApplicationState{
		Description:   binding.NewString(),
		GeneratedCode: binding.NewString(),
		Instructions:  binding.NewString(),
		SelectedNode:  binding.NewString(),
		Generating:    generating,
		UserID:        binding.NewString(),
	}
}

// ConnectionUIState represents the backend link state for the status
// bar. States: "disconnected", "connecting", "connected", "error"
type ConnectionUIState struct {
	State   binding.String
	Message binding.String
}

// NewConnectionUIState creates a new ConnectionUIState with initialized bindings.
func NewConnectionUIState() *ConnectionUIState {
	state := binding.NewString()
	_ = state.Set("disconnected")

	return &ConnectionUIState{
		State:   state,
		Message: binding.NewString(),
	}
}

// GenerationUIState represents the status bar state for the generation
// pipeline. States: "idle", "generating", "ready", "error"
type GenerationUIState struct {
	State   binding.String
	Message binding.String
}

// NewGenerationUIState creates a new GenerationUIState with initialized bindings.
func NewGenerationUIState() *GenerationUIState {
	state := binding.NewString()
	_ = state.Set("idle")

	return &GenerationUIState{
		State:   state,
		Message: binding.NewString(),
	}
}
