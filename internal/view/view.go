// Package view defines the presentation boundary of the budget page and the
// page state shared by the HTML and terminal renderings.
package view

import (
	"time"

	"budget/internal/core"
)

// Input is the raw content of the entry form. RawValue is not parsed here.
type Input struct {
	Category    string
	Description string
	RawValue    string
}

// View is what the coordinator drives. Implementations hold presentation
// state only and never see the ledger.
type View interface {
	ReadInputForm() Input
	RenderNewEntry(e core.Entry, c core.Category)
	RemoveEntry(c core.Category, id int)
	ClearInputForm()
	RenderSummary(s core.Summary)
	// RenderExpensePercentages updates expense rows by position.
	RenderExpensePercentages(ps []core.Percentage)
	RenderCurrentMonthLabel()
	ToggleInputTypeStyling()
}

// Row is one rendered entry.
type Row struct {
	ItemID      string
	ID          int
	Category    core.Category
	Description string
	Value       string
	Percentage  string
}

// Page is the rendered state of everything outside the input form: the
// income and expense lists, the summary labels, the month label and the
// input styling flag.
type Page struct {
	Income   []Row
	Expenses []Row

	Budget          string
	BudgetPositive  bool
	TotalIncome     string
	TotalExpense    string
	SpendPercentage string
	Month           string

	// Alert is the red input styling shown while entering expenses.
	Alert bool

	clock func() time.Time
}

// NewPage returns an empty page. A nil clock means time.Now.
func NewPage(clock func() time.Time) *Page {
	if clock == nil {
		clock = time.Now
	}
	return &Page{clock: clock}
}

func (p *Page) RenderNewEntry(e core.Entry, c core.Category) {
	row := Row{
		ItemID:      core.FormatItemID(c, e.ID),
		ID:          e.ID,
		Category:    c,
		Description: e.Description,
		Value:       FormatValue(e.Value, c),
	}
	switch c {
	case core.Income:
		p.Income = append(p.Income, row)
	case core.Expense:
		row.Percentage = FormatPercentage(e.Percentage)
		p.Expenses = append(p.Expenses, row)
	}
}

func (p *Page) RemoveEntry(c core.Category, id int) {
	rows := p.rows(c)
	if rows == nil {
		return
	}
	for i, r := range *rows {
		if r.ID == id {
			*rows = append((*rows)[:i:i], (*rows)[i+1:]...)
			return
		}
	}
}

func (p *Page) RenderSummary(s core.Summary) {
	p.Budget = FormatBudget(s.Budget)
	p.BudgetPositive = !s.Budget.IsNegative()
	p.TotalIncome = FormatValue(s.TotalIncome, core.Income)
	p.TotalExpense = FormatValue(s.TotalExpense, core.Expense)
	p.SpendPercentage = FormatPercentage(s.SpendPercentage)
}

func (p *Page) RenderExpensePercentages(ps []core.Percentage) {
	for i := range p.Expenses {
		if i >= len(ps) {
			return
		}
		p.Expenses[i].Percentage = FormatPercentage(ps[i])
	}
}

func (p *Page) RenderCurrentMonthLabel() {
	p.Month = MonthLabel(p.clock())
}

func (p *Page) ToggleInputTypeStyling() {
	p.Alert = !p.Alert
}

// Rows returns the rendered rows of a category.
func (p *Page) Rows(c core.Category) []Row {
	if rows := p.rows(c); rows != nil {
		return *rows
	}
	return nil
}

func (p *Page) rows(c core.Category) *[]Row {
	switch c {
	case core.Income:
		return &p.Income
	case core.Expense:
		return &p.Expenses
	}
	return nil
}
