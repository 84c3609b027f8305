package components

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestReadOnlyEntry_BlocksEditing(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewReadOnlyMultiLineEntry("nothing yet")
	e.SetText("keep me")

	e.TypedRune('x')
	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyDelete})
	e.TypedShortcut(&fyne.ShortcutPaste{})

	assert.Equal(t, "keep me", e.Text)
}

func TestReadOnlyEntry_Variants(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	code := NewReadOnlyCodeEntry("code here")
	assert.True(t, code.TextStyle.Monospace)
	assert.Equal(t, fyne.TextWrapOff, code.Wrapping)
	assert.Equal(t, "code here", code.PlaceHolder)

	prose := NewReadOnlyMultiLineEntry("prose here")
	assert.Equal(t, fyne.TextWrapWord, prose.Wrapping)
	assert.True(t, prose.MultiLine)
}
