// Package ledger holds the in-memory income and expense entries and the
// aggregates derived from them.
//
// A Ledger is not safe for concurrent use; callers serialize access the same
// way the coordinator serializes UI events.
package ledger

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Ledger stores entries per category in insertion order.
type Ledger struct {
	items  map[core.Category][]core.Entry
	totals map[core.Category]decimal.Decimal

	budget          decimal.Decimal
	spendPercentage core.Percentage
}

// New returns an empty ledger with zero totals and an undefined
// spend percentage.
func New() *Ledger {
	l := &Ledger{
		items:  make(map[core.Category][]core.Entry, 2),
		totals: make(map[core.Category]decimal.Decimal, 2),
	}
	for _, c := range core.Categories() {
		l.totals[c] = decimal.Zero
	}
	return l
}

// Add appends a new entry and returns a copy of what was stored.
//
// The id is the last id of the category plus one, or 0 for an empty
// category. Inputs are stored as given; validation belongs to the caller.
func (l *Ledger) Add(c core.Category, description string, value decimal.Decimal) core.Entry {
	id := 0
	if items := l.items[c]; len(items) > 0 {
		id = items[len(items)-1].ID + 1
	}
	e := core.Entry{
		ID:          id,
		Description: description,
		Value:       value,
		Category:    c,
	}
	l.items[c] = append(l.items[c], e)
	return e
}

// Delete removes the entry with the given id from its category. A missing
// id is a no-op; the return value reports whether anything was removed.
// Lookup is a linear scan.
func (l *Ledger) Delete(c core.Category, id int) bool {
	items := l.items[c]
	for i := range items {
		if items[i].ID == id {
			l.items[c] = append(items[:i:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// RecomputeTotals rebuilds totals, budget and spend percentage from the
// current entries.
func (l *Ledger) RecomputeTotals() {
	for _, c := range core.Categories() {
		sum := decimal.Zero
		for _, e := range l.items[c] {
			sum = sum.Add(e.Value)
		}
		l.totals[c] = sum
	}
	inc, exp := l.totals[core.Income], l.totals[core.Expense]
	l.budget = inc.Sub(exp)
	l.spendPercentage = core.PercentOf(exp, inc)
}

// RecomputePercentages sets each expense's share of total income.
// It reads the totals, so RecomputeTotals must run first.
func (l *Ledger) RecomputePercentages() {
	inc := l.totals[core.Income]
	for i := range l.items[core.Expense] {
		e := &l.items[core.Expense][i]
		e.Percentage = core.PercentOf(e.Value, inc)
	}
}

func (l *Ledger) Summary() core.Summary {
	return core.Summary{
		Budget:          l.budget,
		TotalIncome:     l.totals[core.Income],
		TotalExpense:    l.totals[core.Expense],
		SpendPercentage: l.spendPercentage,
	}
}

// ExpensePercentages returns one percentage per expense in stored order.
func (l *Ledger) ExpensePercentages() []core.Percentage {
	items := l.items[core.Expense]
	out := make([]core.Percentage, len(items))
	for i, e := range items {
		out[i] = e.Percentage
	}
	return out
}

// Entries returns a copy of a category's entries in insertion order.
func (l *Ledger) Entries(c core.Category) []core.Entry {
	return append([]core.Entry(nil), l.items[c]...)
}

// Len returns the number of entries in a category.
func (l *Ledger) Len(c core.Category) int {
	return len(l.items[c])
}
