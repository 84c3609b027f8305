// Package codeview displays the generated workflow code and its setup
// instructions.
package codeview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/model"
	"github.com/abzali/cue/internal/ui/components"
)

// Panel shows read-only tabs for generated code and instructions, with
// copy-to-clipboard actions.
type Panel struct {
	widget.BaseWidget

	state *model.ApplicationState

	code         *components.ReadOnlyEntry
	instructions *components.ReadOnlyEntry
	tabs         *container.AppTabs
	copyBtn      *widget.Button

	clipboard fyne.Clipboard
}

// NewPanel creates the code view bound to the shared state.
func NewPanel(state *model.ApplicationState, clipboard fyne.Clipboard) *Panel {
	p := &Panel{
		state:     state,
		clipboard: clipboard,
	}

	p.code = components.NewReadOnlyCodeEntry("Generated code appears here")
	p.instructions = components.NewReadOnlyMultiLineEntry("Setup instructions appear here")

	state.GeneratedCode.AddListener(binding.NewDataListener(func() {
		text, _ := state.GeneratedCode.Get()
		p.code.SetText(text)
	}))
	state.Instructions.AddListener(binding.NewDataListener(func() {
		text, _ := state.Instructions.Get()
		p.instructions.SetText(text)
	}))

	p.tabs = container.NewAppTabs(
		container.NewTabItem("Code", container.NewScroll(p.code)),
		container.NewTabItem("Instructions", container.NewScroll(p.instructions)),
	)

	p.copyBtn = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), p.copyActive)

	p.ExtendBaseWidget(p)
	return p
}

// copyActive puts the visible tab's text on the clipboard.
func (p *Panel) copyActive() {
	if p.clipboard == nil {
		return
	}
	if p.tabs.SelectedIndex() == 0 {
		p.clipboard.SetContent(p.code.Text)
	} else {
		p.clipboard.SetContent(p.instructions.Text)
	}
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	toolbar := container.NewHBox(layout.NewSpacer(), p.copyBtn)
	content := container.NewBorder(nil, toolbar, nil, nil, p.tabs)
	return widget.NewSimpleRenderer(content)
}
