package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

func entry(c core.Category, id int, desc, value string) core.Entry {
	return core.Entry{ID: id, Category: c, Description: desc, Value: decimal.RequireFromString(value)}
}

func TestPageRenderAndRemoveRows(t *testing.T) {
	p := NewPage(nil)
	p.RenderNewEntry(entry(core.Income, 0, "Salary", "1000"), core.Income)
	p.RenderNewEntry(entry(core.Expense, 0, "Rent", "300"), core.Expense)
	p.RenderNewEntry(entry(core.Expense, 1, "Food", "2310.4567"), core.Expense)

	if len(p.Income) != 1 || p.Income[0].ItemID != "inc-0" || p.Income[0].Value != "+ 1,000.00" {
		t.Fatalf("income rows = %+v", p.Income)
	}
	if len(p.Expenses) != 2 || p.Expenses[1].ItemID != "exp-1" || p.Expenses[1].Value != "- 2,310.46" {
		t.Fatalf("expense rows = %+v", p.Expenses)
	}
	if p.Expenses[0].Percentage != Undefined {
		t.Fatalf("new expense row percentage = %q, want %q", p.Expenses[0].Percentage, Undefined)
	}

	p.RemoveEntry(core.Expense, 0)
	if len(p.Expenses) != 1 || p.Expenses[0].ItemID != "exp-1" {
		t.Fatalf("after remove = %+v", p.Expenses)
	}
	// Removing an unknown row leaves the page untouched.
	p.RemoveEntry(core.Income, 42)
	if len(p.Income) != 1 {
		t.Fatalf("unknown row removed something: %+v", p.Income)
	}
}

func TestPageRenderSummary(t *testing.T) {
	p := NewPage(nil)
	p.RenderSummary(core.Summary{
		Budget:          decimal.NewFromInt(700),
		TotalIncome:     decimal.NewFromInt(1000),
		TotalExpense:    decimal.NewFromInt(300),
		SpendPercentage: core.Percentage{Value: 30, Defined: true},
	})
	if p.Budget != "+ 700.00" || p.TotalIncome != "+ 1,000.00" || p.TotalExpense != "- 300.00" || p.SpendPercentage != "30%" {
		t.Fatalf("summary labels = %q %q %q %q", p.Budget, p.TotalIncome, p.TotalExpense, p.SpendPercentage)
	}
	if !p.BudgetPositive {
		t.Fatalf("budget should be positive")
	}

	p.RenderSummary(core.Summary{})
	if p.SpendPercentage != Undefined || p.Budget != "+ 0.00" {
		t.Fatalf("zeroed summary labels = %q %q", p.Budget, p.SpendPercentage)
	}
}

func TestPageRenderExpensePercentagesIsPositional(t *testing.T) {
	p := NewPage(nil)
	for i, v := range []string{"10", "20", "30"} {
		p.RenderNewEntry(entry(core.Expense, i*2, "x", v), core.Expense)
	}
	p.RenderExpensePercentages([]core.Percentage{
		{Value: 1, Defined: true},
		core.Undefined(),
		{Value: 3, Defined: true},
	})
	want := []string{"1%", Undefined, "3%"}
	for i, w := range want {
		if p.Expenses[i].Percentage != w {
			t.Fatalf("row %d percentage = %q, want %q", i, p.Expenses[i].Percentage, w)
		}
	}
	// A shorter sequence only updates the leading rows.
	p.RenderExpensePercentages([]core.Percentage{{Value: 9, Defined: true}})
	if p.Expenses[0].Percentage != "9%" || p.Expenses[2].Percentage != "3%" {
		t.Fatalf("short update = %+v", p.Expenses)
	}
}

func TestPageMonthLabelUsesClock(t *testing.T) {
	p := NewPage(func() time.Time { return time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC) })
	p.RenderCurrentMonthLabel()
	if p.Month != "March 2025" {
		t.Fatalf("month = %q", p.Month)
	}
}

func TestPageToggleStyling(t *testing.T) {
	p := NewPage(nil)
	p.ToggleInputTypeStyling()
	if !p.Alert {
		t.Fatalf("expected alert styling after first toggle")
	}
	p.ToggleInputTypeStyling()
	if p.Alert {
		t.Fatalf("expected plain styling after second toggle")
	}
}
