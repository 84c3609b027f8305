// Package credpanel renders the credential ledger as collapsible
// per-service sections with validation badges.
package credpanel

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/credentials"
	"github.com/abzali/cue/internal/domain"
)

// Panel displays credential input fields grouped by service type.
// Values flow straight into the ledger; Refresh rebuilds the sections
// from ledger state after the node set or validation results change.
type Panel struct {
	widget.BaseWidget

	ledger *credentials.Ledger
	logger *slog.Logger

	sections *fyne.Container
	validate *widget.Button
	empty    *widget.Label

	onValueChanged func(fieldID string)
	onValidate     func(fieldIDs []string)
}

// NewPanel creates the credentials panel over the given ledger.
func NewPanel(ledger *credentials.Ledger, logger *slog.Logger) *Panel {
	p := &Panel{
		ledger:   ledger,
		logger:   logger,
		sections: container.NewVBox(),
	}
	p.empty = widget.NewLabel("Generate a workflow to see its credentials")
	p.empty.Importance = widget.LowImportance

	p.validate = widget.NewButton("Validate Credentials", func() {
		if p.onValidate == nil {
			return
		}
		fields := p.ledger.Fields()
		ids := make([]string, 0, len(fields))
		for _, f := range fields {
			ids = append(ids, f.ID)
		}
		p.onValidate(ids)
	})

	p.ExtendBaseWidget(p)
	p.Refresh()
	return p
}

// SetOnValueChanged sets the callback fired after a field edit, used to
// schedule an autosave.
func (p *Panel) SetOnValueChanged(fn func(fieldID string)) {
	p.onValueChanged = fn
}

// SetOnValidate sets the callback fired with all field ids when the
// user requests validation.
func (p *Panel) SetOnValidate(fn func(fieldIDs []string)) {
	p.onValidate = fn
}

// Refresh rebuilds the sections from ledger state.
func (p *Panel) Refresh() {
	if p.sections == nil {
		return
	}
	groups := p.ledger.Groups()

	p.sections.Objects = nil
	if len(groups) == 0 {
		p.sections.Add(p.empty)
		p.validate.Disable()
	} else {
		for _, g := range groups {
			p.sections.Add(p.buildSection(g))
		}
		p.validate.Enable()
	}
	p.sections.Refresh()
	p.BaseWidget.Refresh()
}

// buildSection renders one service group: a header button that toggles
// the field list, with a status badge.
func (p *Panel) buildSection(g credentials.Group) fyne.CanvasObject {
	fieldsBox := container.NewVBox()
	for _, f := range g.Fields {
		fieldsBox.Add(p.buildField(f))
	}
	if !g.Expanded {
		fieldsBox.Hide()
	}

	title := g.ServiceType.DisplayName()
	header := widget.NewButtonWithIcon(title, groupBadge(g.Status), nil)
	header.Alignment = widget.ButtonAlignLeading
	header.OnTapped = func() {
		p.ledger.ToggleSectionExpanded(g.ServiceType)
		if fieldsBox.Visible() {
			fieldsBox.Hide()
		} else {
			fieldsBox.Show()
		}
	}

	return container.NewVBox(header, fieldsBox)
}

// buildField renders one credential entry with its status line. The
// entry's change handler is attached after the initial SetText so
// restoring a value does not count as an edit.
func (p *Panel) buildField(f domain.CredentialField) fyne.CanvasObject {
	var entry *widget.Entry
	if f.CredentialType == domain.CredentialPassword {
		entry = widget.NewPasswordEntry()
	} else {
		entry = widget.NewEntry()
	}
	entry.SetPlaceHolder(f.Placeholder)
	entry.SetText(f.Value)

	fieldID := f.ID
	entry.OnChanged = func(value string) {
		p.ledger.SetValue(fieldID, value)
		if p.onValueChanged != nil {
			p.onValueChanged(fieldID)
		}
	}

	name := f.Name
	if f.Required {
		name += " *"
	}
	label := widget.NewLabel(name)
	label.TextStyle = fyne.TextStyle{Bold: true}

	row := container.NewVBox(label, entry)

	if f.Valid != nil && !*f.Valid {
		msg := f.ValidationMessage
		if msg == "" {
			msg = "Invalid value"
		}
		errLabel := widget.NewLabel(msg)
		errLabel.Importance = widget.DangerImportance
		errLabel.Wrapping = fyne.TextWrapWord
		row.Add(errLabel)
	} else if f.Valid != nil {
		okLabel := widget.NewLabel("Verified")
		okLabel.Importance = widget.SuccessImportance
		row.Add(okLabel)
	}

	return row
}

func groupBadge(status credentials.GroupStatus) fyne.Resource {
	switch status {
	case credentials.GroupInvalid:
		return theme.ErrorIcon()
	case credentials.GroupMissing:
		return theme.WarningIcon()
	case credentials.GroupValid:
		return theme.ConfirmIcon()
	default:
		return theme.RadioButtonIcon()
	}
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	heading := widget.NewLabelWithStyle("Credentials", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	content := container.NewBorder(
		heading,
		p.validate,
		nil,
		nil,
		container.NewVScroll(p.sections),
	)
	return widget.NewSimpleRenderer(content)
}
