// Package components holds small widgets shared across panels.
package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// ReadOnlyEntry shows selectable, copyable text that cannot be edited.
// Unlike a disabled Entry it keeps full contrast and the native text
// cursor, so generated output reads like regular content.
type ReadOnlyEntry struct {
	widget.Entry
}

// NewReadOnlyMultiLineEntry creates a word-wrapped read-only entry for
// prose such as setup instructions.
func NewReadOnlyMultiLineEntry(placeholder string) *ReadOnlyEntry {
	e := newReadOnly(placeholder)
	e.Wrapping = fyne.TextWrapWord
	return e
}

// NewReadOnlyCodeEntry creates a monospace, unwrapped read-only entry
// for generated source code.
func NewReadOnlyCodeEntry(placeholder string) *ReadOnlyEntry {
	e := newReadOnly(placeholder)
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.Wrapping = fyne.TextWrapOff
	return e
}

func newReadOnly(placeholder string) *ReadOnlyEntry {
	e := &ReadOnlyEntry{}
	e.MultiLine = true
	e.ExtendBaseWidget(e)
	e.SetPlaceHolder(placeholder)
	return e
}

// TypedRune drops all character input.
func (e *ReadOnlyEntry) TypedRune(_ rune) {}

// TypedKey passes through cursor and selection movement only; editing
// keys (backspace, delete, enter) are dropped.
func (e *ReadOnlyEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyLeft, fyne.KeyRight, fyne.KeyUp, fyne.KeyDown,
		fyne.KeyHome, fyne.KeyEnd, fyne.KeyPageUp, fyne.KeyPageDown:
		e.Entry.TypedKey(key)
	}
}

// TypedShortcut passes through copy and select-all; paste, cut, undo
// and redo are dropped.
func (e *ReadOnlyEntry) TypedShortcut(shortcut fyne.Shortcut) {
	switch shortcut.(type) {
	case *fyne.ShortcutCopy, *fyne.ShortcutSelectAll:
		e.Entry.TypedShortcut(shortcut)
	}
}
