// Package describe holds the workflow description input panel.
package describe

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/model"
)

// Panel is the natural-language workflow description input with the
// generate action. The entry binds to the shared description state so
// autosave and restore see the same text.
type Panel struct {
	widget.BaseWidget

	entry    *widget.Entry
	generate *widget.Button
	progress *widget.ProgressBarInfinite

	onGenerate func(description string)
}

// NewPanel creates the description panel bound to the shared state.
func NewPanel(state *model.ApplicationState) *Panel {
	p := &Panel{}

	p.entry = widget.NewEntryWithData(state.Description)
	p.entry.MultiLine = true
	p.entry.Wrapping = fyne.TextWrapWord
	p.entry.SetPlaceHolder("e.g. When a Stripe payment succeeds, email a receipt and log it to DynamoDB")

	p.generate = widget.NewButton("Generate Workflow", func() {
		if p.onGenerate != nil {
			p.onGenerate(p.entry.Text)
		}
	})
	p.generate.Importance = widget.HighImportance

	p.progress = widget.NewProgressBarInfinite()
	p.progress.Hide()

	// Disable the button and show progress while a request is in flight
	state.Generating.AddListener(binding.NewDataListener(func() {
		generating, _ := state.Generating.Get()
		if generating {
			p.generate.Disable()
			p.progress.Show()
			p.progress.Start()
		} else {
			p.progress.Stop()
			p.progress.Hide()
			p.generate.Enable()
		}
	}))

	p.ExtendBaseWidget(p)
	return p
}

// SetOnGenerate sets the callback invoked with the current description.
func (p *Panel) SetOnGenerate(fn func(description string)) {
	p.onGenerate = fn
}

// TriggerGenerate programmatically activates the generate action, used
// by the keyboard shortcut.
func (p *Panel) TriggerGenerate() {
	if p.onGenerate != nil && !p.generate.Disabled() {
		p.onGenerate(p.entry.Text)
	}
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	bottom := container.NewVBox(p.progress, p.generate)
	content := container.NewBorder(nil, bottom, nil, nil, p.entry)
	return widget.NewSimpleRenderer(content)
}
