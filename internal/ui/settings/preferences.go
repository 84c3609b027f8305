// Package settings holds the preferences dialog.
package settings

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Preference keys (must match the constants used elsewhere in the app).
const (
	PrefGenerationTimeout = "generationTimeout"
	PrefTheme             = "appTheme"
)

// PreferencesCallbacks provides hooks for the preferences dialog to
// apply changes.
type PreferencesCallbacks struct {
	// OnThemeChange is called with "system", "dark", or "light"
	OnThemeChange func(mode string)

	// OnRememberMeChange flips the workspace storage tier
	OnRememberMeChange func(remember bool)

	// OnTimeoutChange applies a new generation request deadline
	OnTimeoutChange func(timeout time.Duration)
}

// ShowPreferencesDialog displays the unified preferences dialog with
// General and Appearance tabs.
func ShowPreferencesDialog(a fyne.App, window fyne.Window, rememberMe bool, callbacks PreferencesCallbacks) {
	prefs := a.Preferences()

	// --- General tab ---

	rememberCheck := widget.NewCheck("Remember my workspace on this device", nil)
	rememberCheck.SetChecked(rememberMe)

	currentTimeout := prefs.FloatWithFallback(PrefGenerationTimeout, 60)
	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(strconv.FormatFloat(currentTimeout, 'f', -1, 64))

	rememberHint := widget.NewLabel("When off, your workspace is kept only until the app closes.")
	rememberHint.Wrapping = fyne.TextWrapWord

	generalTab := container.NewTabItem("General", container.NewVBox(
		rememberCheck,
		rememberHint,
		widget.NewForm(
			widget.NewFormItem("Generation Timeout (seconds)", timeoutEntry),
		),
	))

	// --- Appearance tab ---

	themeSelector := widget.NewSelect(
		[]string{"System Default", "Light", "Dark"},
		nil,
	)

	savedTheme := prefs.StringWithFallback(PrefTheme, "system")
	switch savedTheme {
	case "dark":
		themeSelector.SetSelected("Dark")
	case "light":
		themeSelector.SetSelected("Light")
	default:
		themeSelector.SetSelected("System Default")
	}

	appearanceTab := container.NewTabItem("Appearance", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Theme", themeSelector),
		),
	))

	// --- Build dialog ---

	tabs := container.NewAppTabs(generalTab, appearanceTab)

	dlg := dialog.NewCustomConfirm("Preferences", "Save", "Cancel", tabs, func(save bool) {
		if !save {
			return
		}

		if rememberCheck.Checked != rememberMe && callbacks.OnRememberMeChange != nil {
			callbacks.OnRememberMeChange(rememberCheck.Checked)
		}

		if val, err := strconv.ParseFloat(timeoutEntry.Text, 64); err == nil && val > 0 {
			if callbacks.OnTimeoutChange != nil {
				callbacks.OnTimeoutChange(time.Duration(val * float64(time.Second)))
			}
		}

		var mode string
		switch themeSelector.Selected {
		case "Dark":
			mode = "dark"
		case "Light":
			mode = "light"
		default:
			mode = "system"
		}
		prefs.SetString(PrefTheme, mode)
		if callbacks.OnThemeChange != nil {
			callbacks.OnThemeChange(mode)
		}
	}, window)

	dlg.Resize(fyne.NewSize(500, 350))
	dlg.Show()
}
