package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pct(v int64) core.Percentage { return core.Percentage{Value: v, Defined: true} }

func sameSummary(a, b core.Summary) bool {
	return a.Budget.Equal(b.Budget) &&
		a.TotalIncome.Equal(b.TotalIncome) &&
		a.TotalExpense.Equal(b.TotalExpense) &&
		a.SpendPercentage == b.SpendPercentage
}

func recompute(l *Ledger) {
	l.RecomputeTotals()
	l.RecomputePercentages()
}

func TestNewLedgerSummary(t *testing.T) {
	l := New()
	s := l.Summary()
	if !s.Budget.IsZero() || !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() {
		t.Fatalf("expected zero totals, got %+v", s)
	}
	if s.SpendPercentage.Defined {
		t.Fatalf("expected undefined spend percentage on empty ledger")
	}
}

func TestAddAssignsIncreasingIDsPerCategory(t *testing.T) {
	l := New()
	values := []string{"10", "0.5", "999", "1", "42"}
	for i, v := range values {
		e := l.Add(core.Expense, "item", dec(v))
		if e.ID != i {
			t.Fatalf("expense %d got id %d", i, e.ID)
		}
	}
	// Categories are numbered independently.
	if e := l.Add(core.Income, "salary", dec("100")); e.ID != 0 {
		t.Fatalf("first income id = %d, want 0", e.ID)
	}
}

func TestIDsAreNotRenumberedAfterDelete(t *testing.T) {
	l := New()
	for i := 0; i < 4; i++ {
		l.Add(core.Income, "x", dec("1"))
	}
	l.Delete(core.Income, 1)
	e := l.Add(core.Income, "y", dec("1"))
	if e.ID != 4 {
		t.Fatalf("id after delete = %d, want 4", e.ID)
	}
	var ids []int
	for _, e := range l.Entries(core.Income) {
		ids = append(ids, e.ID)
	}
	want := []int{0, 2, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestAddReturnsCopy(t *testing.T) {
	l := New()
	e := l.Add(core.Income, "salary", dec("100"))
	e.Description = "changed"
	if got := l.Entries(core.Income)[0].Description; got != "salary" {
		t.Fatalf("stored entry mutated through returned copy: %q", got)
	}
}

func TestDeleteJustAddedRestoresTotals(t *testing.T) {
	l := New()
	l.Add(core.Income, "salary", dec("1000"))
	l.Add(core.Expense, "rent", dec("300"))
	recompute(l)
	before := l.Summary()

	for _, c := range core.Categories() {
		e := l.Add(c, "temp", dec("123.45"))
		recompute(l)
		if !l.Delete(c, e.ID) {
			t.Fatalf("delete %s-%d reported nothing removed", c, e.ID)
		}
		recompute(l)
		if after := l.Summary(); !sameSummary(before, after) {
			t.Fatalf("%s: summary %+v, want %+v", c, after, before)
		}
	}
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	l := New()
	l.Add(core.Income, "salary", dec("1000"))
	l.Add(core.Expense, "rent", dec("300"))
	l.Add(core.Expense, "food", dec("200"))
	recompute(l)
	before := l.Summary()
	entries := l.Entries(core.Expense)

	if l.Delete(core.Expense, 99) {
		t.Fatalf("delete of missing id reported a removal")
	}
	recompute(l)

	if after := l.Summary(); !sameSummary(before, after) {
		t.Fatalf("summary changed: %+v -> %+v", before, after)
	}
	got := l.Entries(core.Expense)
	if len(got) != len(entries) {
		t.Fatalf("entries changed: %v -> %v", entries, got)
	}
	for i := range got {
		if got[i].ID != entries[i].ID || !got[i].Value.Equal(entries[i].Value) {
			t.Fatalf("entries changed: %v -> %v", entries, got)
		}
	}
}

func TestRecomputeTotalsIsIdempotent(t *testing.T) {
	l := New()
	l.Add(core.Income, "salary", dec("1234.56"))
	l.Add(core.Expense, "rent", dec("789.01"))
	l.RecomputeTotals()
	first := l.Summary()
	l.RecomputeTotals()
	if second := l.Summary(); !sameSummary(first, second) {
		t.Fatalf("not idempotent: %+v then %+v", first, second)
	}
}

func TestIncomeAndExpenseScenario(t *testing.T) {
	l := New()
	l.Add(core.Income, "salary", dec("1000"))
	l.Add(core.Expense, "rent", dec("300"))
	recompute(l)

	s := l.Summary()
	if !s.Budget.Equal(dec("700")) {
		t.Fatalf("budget = %s, want 700", s.Budget)
	}
	if s.SpendPercentage != pct(30) {
		t.Fatalf("spend percentage = %+v, want 30", s.SpendPercentage)
	}
	ps := l.ExpensePercentages()
	if len(ps) != 1 || ps[0] != pct(30) {
		t.Fatalf("expense percentages = %+v, want [30]", ps)
	}
}

func TestZeroIncomeLeavesPercentagesUndefined(t *testing.T) {
	l := New()
	l.Add(core.Expense, "coffee", dec("50"))
	l.Add(core.Expense, "lunch", dec("12.5"))
	recompute(l)

	s := l.Summary()
	if s.SpendPercentage.Defined {
		t.Fatalf("spend percentage must be undefined without income, got %+v", s.SpendPercentage)
	}
	if !s.Budget.Equal(dec("-62.5")) {
		t.Fatalf("budget = %s, want -62.5", s.Budget)
	}
	for i, p := range l.ExpensePercentages() {
		if p.Defined {
			t.Fatalf("expense %d percentage must be undefined, got %+v", i, p)
		}
	}
}

func TestPercentagesBecomeUndefinedWhenIncomeRemoved(t *testing.T) {
	l := New()
	inc := l.Add(core.Income, "salary", dec("200"))
	l.Add(core.Expense, "rent", dec("50"))
	recompute(l)
	if got := l.ExpensePercentages(); got[0] != pct(25) {
		t.Fatalf("percentage = %+v, want 25", got[0])
	}

	l.Delete(core.Income, inc.ID)
	recompute(l)
	if l.Summary().SpendPercentage.Defined || l.ExpensePercentages()[0].Defined {
		t.Fatalf("percentages must be undefined after the only income is deleted")
	}
}

func TestExpensePercentagesFollowStoredOrder(t *testing.T) {
	l := New()
	l.Add(core.Income, "salary", dec("1000"))
	l.Add(core.Expense, "a", dec("100"))
	l.Add(core.Expense, "b", dec("250"))
	l.Add(core.Expense, "c", dec("5"))
	l.Delete(core.Expense, 1)
	recompute(l)

	got := l.ExpensePercentages()
	want := []core.Percentage{pct(10), pct(1)}
	if len(got) != len(want) {
		t.Fatalf("percentages = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("percentages = %+v, want %+v", got, want)
		}
	}
}
