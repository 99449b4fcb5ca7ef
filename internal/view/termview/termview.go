// Package termview renders the budget page in a terminal with bubbletea.
package termview

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"budget/internal/core"
	"budget/internal/view"
)

// Input fields in tab order.
const (
	fieldType = iota
	fieldDescription
	fieldValue
	fieldCount
)

// View is the terminal page model. It satisfies view.View.
type View struct {
	*view.Page

	category    core.Category
	description textinput.Model
	value       textinput.Model
	focus       int
}

var _ view.View = (*View)(nil)

func NewView(clock func() time.Time) *View {
	desc := textinput.New()
	desc.Placeholder = "Add description"
	desc.CharLimit = 200
	desc.Width = 30

	val := textinput.New()
	val.Placeholder = "Value"
	val.CharLimit = 20
	val.Width = 12

	v := &View{
		Page:        view.NewPage(clock),
		category:    core.Income,
		description: desc,
		value:       val,
	}
	v.setFocus(fieldDescription)
	return v
}

func (v *View) ReadInputForm() view.Input {
	return view.Input{
		Category:    string(v.category),
		Description: v.description.Value(),
		RawValue:    v.value.Value(),
	}
}

func (v *View) ClearInputForm() {
	v.description.SetValue("")
	v.value.SetValue("")
	v.setFocus(fieldDescription)
}

// Category returns the type the form currently targets.
func (v *View) Category() core.Category {
	return v.category
}

// switchCategory flips the type selector.
func (v *View) switchCategory() {
	if v.category == core.Income {
		v.category = core.Expense
	} else {
		v.category = core.Income
	}
}

func (v *View) setFocus(field int) {
	v.focus = (field + fieldCount) % fieldCount
	v.description.Blur()
	v.value.Blur()
	switch v.focus {
	case fieldDescription:
		v.description.Focus()
	case fieldValue:
		v.value.Focus()
	}
}

// editing reports whether keystrokes go to a text field.
func (v *View) editing() bool {
	return v.focus == fieldDescription || v.focus == fieldValue
}
