package termview

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"budget/internal/coordinator"
	"budget/internal/core"
	"budget/internal/ledger"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
}

func newTestModel(t *testing.T) (Model, *ledger.Ledger) {
	t.Helper()
	l := ledger.New()
	v := NewView(fixedClock)
	c := coordinator.New(l, v)
	c.Init(context.Background())
	return New(context.Background(), v, c), l
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func addEntry(m Model, desc, value string) Model {
	return send(m,
		runes(desc),
		key(tea.KeyTab),
		runes(value),
		key(tea.KeyEnter),
	)
}

func TestViewStartsOnDescription(t *testing.T) {
	v := NewView(fixedClock)
	if v.focus != fieldDescription {
		t.Errorf("focus = %d, want description", v.focus)
	}
	if v.Category() != core.Income {
		t.Errorf("category = %q, want income", v.Category())
	}
}

func TestAddIncomeThroughKeys(t *testing.T) {
	m, l := newTestModel(t)

	m = addEntry(m, "Salary", "1000")

	if l.Len(core.Income) != 1 {
		t.Fatalf("income entries = %d, want 1", l.Len(core.Income))
	}
	in := m.view.ReadInputForm()
	if in.Description != "" || in.RawValue != "" {
		t.Errorf("form not cleared: %+v", in)
	}
	if m.view.focus != fieldDescription {
		t.Errorf("focus = %d, want description after add", m.view.focus)
	}
	if !strings.Contains(m.status, "inc-0") {
		t.Errorf("status = %q", m.status)
	}
	out := m.View()
	for _, want := range []string{"October 2026", "+ 1,000.00", "Salary", "Income", "Expense"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExpenseAfterToggle(t *testing.T) {
	m, l := newTestModel(t)
	m = addEntry(m, "Salary", "1000")

	m = send(m, key(tea.KeyCtrlT))
	if m.view.Category() != core.Expense {
		t.Fatalf("category = %q, want expense", m.view.Category())
	}
	if !m.view.Alert {
		t.Error("alert styling not toggled")
	}

	m = addEntry(m, "Rent", "300")
	if l.Len(core.Expense) != 1 {
		t.Fatalf("expense entries = %d, want 1", l.Len(core.Expense))
	}
	if !l.Summary().Budget.Equal(decimal.NewFromInt(700)) {
		t.Errorf("budget = %s, want 700", l.Summary().Budget)
	}
	if got := m.view.Expenses[0].Percentage; got != "30%" {
		t.Errorf("expense percentage = %q, want 30%%", got)
	}
}

func TestInvalidInputSetsErrorStatus(t *testing.T) {
	m, l := newTestModel(t)

	m = addEntry(m, "Salary", "abc")

	if l.Len(core.Income) != 0 {
		t.Fatal("ledger changed on invalid input")
	}
	if !m.statusErr || m.status != "Please enter a value greater than zero" {
		t.Errorf("status = %q (err=%v)", m.status, m.statusErr)
	}
	// Input is kept for correction.
	if m.view.ReadInputForm().Description != "Salary" {
		t.Error("description lost after rejected input")
	}
}

func TestDeleteSelectedRow(t *testing.T) {
	m, l := newTestModel(t)
	m = addEntry(m, "Salary", "1000")
	m = addEntry(m, "Bonus", "200")

	m = send(m, key(tea.KeyCtrlD))
	if !m.statusErr {
		t.Error("delete without selection should report an error")
	}

	m = send(m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyCtrlD))
	if l.Len(core.Income) != 1 {
		t.Fatalf("income entries = %d, want 1", l.Len(core.Income))
	}
	if got := l.Entries(core.Income)[0].Description; got != "Salary" {
		t.Errorf("remaining entry = %q, want Salary", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after deleting last row", m.cursor)
	}
}

func TestCursorBounds(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(m, key(tea.KeyDown))
	if m.cursor != -1 {
		t.Errorf("cursor = %d, want -1 with no rows", m.cursor)
	}

	m = addEntry(m, "Salary", "1000")
	m = send(m, key(tea.KeyUp), key(tea.KeyUp))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestFocusCycleAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	// "q" while editing is text.
	m = send(m, runes("q"))
	if m.view.ReadInputForm().Description != "q" {
		t.Errorf("description = %q, want q", m.view.ReadInputForm().Description)
	}

	m = send(m, key(tea.KeyTab), key(tea.KeyTab))
	if m.view.focus != fieldType {
		t.Fatalf("focus = %d, want type selector", m.view.focus)
	}

	m = send(m, key(tea.KeySpace))
	if m.view.Category() != core.Expense {
		t.Error("space on the type selector should toggle the type")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q on the type selector should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
