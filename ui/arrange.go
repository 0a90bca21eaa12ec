package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"

	"github.com/lepinkainen/pdfkit/pdf"
	"github.com/lepinkainen/pdfkit/transport"
)

// Arrangement orders the uploads of a multi-file tool before submission
type Arrangement struct {
	Tool   string
	Cursor int

	files []string
	order pdf.Order
	build func(pdf.Order) (transport.Form, error)
}

// NewArrangement starts from the given order, or the input order when nil.
// build turns the final order into the submission.
func NewArrangement(tool string, files []string, order pdf.Order, build func(pdf.Order) (transport.Form, error)) *Arrangement {
	if order == nil {
		order = pdf.NewOrder(len(files))
	}
	return &Arrangement{Tool: tool, files: files, order: order, build: build}
}

// Files returns the files in upload order
func (a *Arrangement) Files() []string {
	return pdf.Apply(a.order, a.files)
}

// Order returns the current permutation
func (a *Arrangement) Order() pdf.Order {
	return append(pdf.Order(nil), a.order...)
}

func (a *Arrangement) CursorUp() {
	if a.Cursor > 0 {
		a.Cursor--
	}
}

func (a *Arrangement) CursorDown() {
	if a.Cursor < len(a.order)-1 {
		a.Cursor++
	}
}

// MoveUp moves the file under the cursor one place earlier, cursor following
func (a *Arrangement) MoveUp() {
	if a.order.MoveUp(a.Cursor) {
		a.Cursor--
	}
}

// MoveDown moves the file under the cursor one place later, cursor following
func (a *Arrangement) MoveDown() {
	if a.order.MoveDown(a.Cursor) {
		a.Cursor++
	}
}

func (a *Arrangement) MoveToTop() {
	if a.order.MoveTo(a.Cursor, 0) {
		a.Cursor = 0
	}
}

func (a *Arrangement) MoveToBottom() {
	if last := len(a.order) - 1; a.order.MoveTo(a.Cursor, last) {
		a.Cursor = last
	}
}

// Form builds the submission with the current order
func (a *Arrangement) Form() (transport.Form, error) {
	return a.build(a.Order())
}

// labels returns display names in upload order
func (a *Arrangement) labels() []string {
	files := a.Files()
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f)
	}
	return out
}

type arrangeKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func defaultArrangeKeys() arrangeKeyMap {
	return arrangeKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select")),
		MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "to top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "to bottom")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

func (k arrangeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.Confirm, k.Cancel}
}

func (k arrangeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.MoveUp, k.MoveDown, k.Top, k.Bottom},
		{k.Confirm, k.Cancel},
	}
}
