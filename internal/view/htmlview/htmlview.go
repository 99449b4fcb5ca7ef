// Package htmlview keeps the state of the server-rendered budget page.
//
// The HTTP layer copies submitted form fields in with SetInput, lets the
// coordinator drive the page, and then executes templates against it.
package htmlview

import (
	"time"

	"budget/internal/core"
	"budget/internal/view"
)

// Field names used for focus tracking.
const (
	FieldDescription = "description"
	FieldValue       = "value"
)

// Form is the rendered entry form.
type Form struct {
	Type        string
	Description string
	Value       string
	Focus       string
}

// View is the HTML page model. It satisfies view.View.
type View struct {
	*view.Page
	Form Form
}

var _ view.View = (*View)(nil)

func New(clock func() time.Time) *View {
	return &View{
		Page: view.NewPage(clock),
		Form: Form{Type: string(core.Income), Focus: FieldDescription},
	}
}

// SetInput records the form fields carried by an input event.
func (v *View) SetInput(in view.Input) {
	if in.Category != "" {
		v.Form.Type = in.Category
	}
	v.Form.Description = in.Description
	v.Form.Value = in.RawValue
}

func (v *View) ReadInputForm() view.Input {
	return view.Input{
		Category:    v.Form.Type,
		Description: v.Form.Description,
		RawValue:    v.Form.Value,
	}
}

func (v *View) ClearInputForm() {
	v.Form.Description = ""
	v.Form.Value = ""
	v.Form.Focus = FieldDescription
}

// IsExpense reports whether the form currently targets expenses.
func (v *View) IsExpense() bool {
	return v.Form.Type == string(core.Expense)
}
