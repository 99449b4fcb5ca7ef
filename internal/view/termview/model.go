package termview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"budget/internal/core"
	"budget/internal/view"
)

// Controller runs the input event flows against the view.
type Controller interface {
	Add(ctx context.Context) (core.Entry, error)
	Delete(ctx context.Context, itemID string) error
	ChangeType(ctx context.Context)
}

type Styles struct {
	Title    lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Income   lipgloss.Style
	Expense  lipgloss.Style
	Summary  lipgloss.Style
	Selected lipgloss.Style
	Alert    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("#28b9b5")).Bold(true),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5049")).Bold(true),
		Income:   lipgloss.NewStyle().Foreground(lipgloss.Color("#28b9b5")),
		Expense:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5049")),
		Summary:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
		Selected: lipgloss.NewStyle().Reverse(true),
		Alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5049")).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5049")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// Model is the bubbletea program model for the budget page.
type Model struct {
	ctx    context.Context
	view   *View
	ctrl   Controller
	Styles Styles

	cursor    int
	status    string
	statusErr bool
	width     int
}

var _ tea.Model = Model{}

func New(ctx context.Context, v *View, ctrl Controller) Model {
	return Model{
		ctx:    ctx,
		view:   v,
		ctrl:   ctrl,
		Styles: defaultStyles(),
		cursor: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.view
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !v.editing() {
			return m, tea.Quit
		}
	case "tab":
		v.setFocus(v.focus + 1)
		return m, nil
	case "shift+tab":
		v.setFocus(v.focus - 1)
		return m, nil
	case "ctrl+t":
		m.changeType()
		return m, nil
	case " ":
		if v.focus == fieldType {
			m.changeType()
			return m, nil
		}
	case "enter":
		m.add()
		return m, nil
	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	case "ctrl+d":
		m.deleteSelected()
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [2]tea.Cmd
	m.view.description, cmds[0] = m.view.description.Update(msg)
	m.view.value, cmds[1] = m.view.value.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m *Model) changeType() {
	m.view.switchCategory()
	m.ctrl.ChangeType(m.ctx)
}

func (m *Model) add() {
	e, err := m.ctrl.Add(m.ctx)
	if err != nil {
		m.setStatus(view.ErrorMessage(err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Added %s: %s", e.ItemID(), e.Description), false)
}

func (m *Model) deleteSelected() {
	row, ok := m.selected()
	if !ok {
		m.setStatus("Select an entry with up/down first", true)
		return
	}
	if err := m.ctrl.Delete(m.ctx, row.ItemID); err != nil {
		m.setStatus(view.ErrorMessage(err), true)
		return
	}
	m.setStatus("Deleted "+row.ItemID, false)
	m.clampCursor()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// rows lists income rows followed by expense rows, the order the cursor walks.
func (m Model) rows() []view.Row {
	out := make([]view.Row, 0, len(m.view.Income)+len(m.view.Expenses))
	out = append(out, m.view.Income...)
	return append(out, m.view.Expenses...)
}

func (m Model) selected() (view.Row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return view.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.rows())
	if n == 0 {
		m.cursor = -1
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.Styles.Summary.Render(m.summaryView()),
		"",
		m.formView(),
		"",
		m.listsView(),
		"",
		m.statusView(),
		m.Styles.Help.Render("tab: next field • ctrl+t: income/expense • enter: add • ↑/↓: select • ctrl+d: delete • ctrl+c: quit"),
	)
}

func (m Model) summaryView() string {
	p := m.view.Page
	budget := m.Styles.Negative
	if p.BudgetPositive {
		budget = m.Styles.Positive
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.Styles.Title.Render("Available Budget in "+p.Month+":"),
		budget.Render(p.Budget),
		m.Styles.Income.Render(fmt.Sprintf("%-10s %s", "INCOME", p.TotalIncome)),
		m.Styles.Expense.Render(fmt.Sprintf("%-10s %s  %s", "EXPENSES", p.TotalExpense, p.SpendPercentage)),
	)
}

func (m Model) formView() string {
	v := m.view
	sign := "[+]"
	if v.category == core.Expense {
		sign = "[-]"
	}
	if v.Alert {
		sign = m.Styles.Alert.Render(sign)
	}
	if v.focus == fieldType {
		sign = m.Styles.Selected.Render(sign)
	}
	return strings.Join([]string{sign, v.description.View(), v.value.View()}, "  ")
}

var titleCaser = cases.Title(language.English)

func (m Model) listsView() string {
	offset := len(m.view.Income)
	income := m.listView(titleCaser.String(core.Income.Name()), m.view.Income, 0, m.Styles.Income)
	expenses := m.listView(titleCaser.String(core.Expense.Name()), m.view.Expenses, offset, m.Styles.Expense)
	return lipgloss.JoinHorizontal(lipgloss.Top, income, "    ", expenses)
}

func (m Model) listView(title string, rows []view.Row, offset int, style lipgloss.Style) string {
	lines := []string{style.Bold(true).Render(title)}
	for i, r := range rows {
		line := fmt.Sprintf("%-24s %14s", r.Description, r.Value)
		if r.Category == core.Expense {
			line += fmt.Sprintf(" %5s", r.Percentage)
		}
		if offset+i == m.cursor {
			line = m.Styles.Selected.Render(line)
		} else {
			line = style.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.Styles.Error.Render(m.status)
	}
	return m.Styles.Status.Render(m.status)
}
