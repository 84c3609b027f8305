// Package status holds the window status bar.
package status

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/model"
)

// Bar displays the backend link state and the generation pipeline state
// with shape-changing icon indicators. Each state uses a distinct icon
// shape for accessibility (not color-only).
type Bar struct {
	widget.BaseWidget

	conn *model.ConnectionUIState
	gen  *model.GenerationUIState

	connIcon  *widget.Icon
	connLabel *widget.Label
	genIcon   *widget.Icon
	genLabel  *widget.Label
}

// NewBar creates a status bar bound to the connection and generation
// states.
func NewBar(conn *model.ConnectionUIState, gen *model.GenerationUIState) *Bar {
	b := &Bar{
		conn:      conn,
		gen:       gen,
		connIcon:  widget.NewIcon(theme.RadioButtonIcon()),
		connLabel: widget.NewLabel("Disconnected"),
		genIcon:   widget.NewIcon(theme.RadioButtonIcon()),
		genLabel:  widget.NewLabel("Ready"),
	}
	b.connLabel.Truncation = fyne.TextTruncateEllipsis
	b.genLabel.Truncation = fyne.TextTruncateEllipsis
	b.ExtendBaseWidget(b)

	conn.State.AddListener(binding.NewDataListener(b.updateConn))
	conn.Message.AddListener(binding.NewDataListener(b.updateConn))
	gen.State.AddListener(binding.NewDataListener(b.updateGen))
	gen.Message.AddListener(binding.NewDataListener(b.updateGen))

	b.updateConn()
	b.updateGen()
	return b
}

func (b *Bar) updateConn() {
	state, _ := b.conn.State.Get()
	message, _ := b.conn.Message.Get()

	switch state {
	case "connecting":
		b.connIcon.SetResource(theme.ViewRefreshIcon())
		b.setLabel(b.connLabel, message, "Connecting...")
	case "connected":
		b.connIcon.SetResource(theme.ConfirmIcon())
		b.setLabel(b.connLabel, message, "Connected")
	case "error":
		b.connIcon.SetResource(theme.ErrorIcon())
		b.setLabel(b.connLabel, message, "Connection Error")
	default:
		b.connIcon.SetResource(theme.RadioButtonIcon())
		b.setLabel(b.connLabel, message, "Disconnected")
	}
}

func (b *Bar) updateGen() {
	state, _ := b.gen.State.Get()
	message, _ := b.gen.Message.Get()

	switch state {
	case "generating":
		b.genIcon.SetResource(theme.ViewRefreshIcon())
		b.setLabel(b.genLabel, message, "Generating...")
	case "ready":
		b.genIcon.SetResource(theme.ConfirmIcon())
		b.setLabel(b.genLabel, message, "Workflow ready")
	case "error":
		b.genIcon.SetResource(theme.ErrorIcon())
		b.setLabel(b.genLabel, message, "Generation failed")
	default:
		b.genIcon.SetResource(theme.RadioButtonIcon())
		b.setLabel(b.genLabel, message, "Ready")
	}
}

func (b *Bar) setLabel(label *widget.Label, message, fallback string) {
	if message == "" {
		message = fallback
	}
	label.SetText(message)
}

// CreateRenderer implements fyne.Widget.
func (b *Bar) CreateRenderer() fyne.WidgetRenderer {
	row := container.NewHBox(
		b.genIcon,
		b.genLabel,
		layout.NewSpacer(),
		b.connIcon,
		b.connLabel,
	)
	return widget.NewSimpleRenderer(row)
}
