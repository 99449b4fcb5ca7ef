package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Undefined is shown in place of a percentage that has no meaning.
const Undefined = "---"

// FormatValue renders an amount as "+ 2,310.46" for income and
// "- 2,310.46" for expense: absolute value, two decimals, grouped thousands.
func FormatValue(v decimal.Decimal, c core.Category) string {
	sign := "+"
	if c == core.Expense {
		sign = "-"
	}
	return sign + " " + groupedFixed(v.Abs())
}

// FormatBudget signs the budget by its own value; zero counts as positive.
func FormatBudget(v decimal.Decimal) string {
	if v.IsNegative() {
		return FormatValue(v, core.Expense)
	}
	return FormatValue(v, core.Income)
}

// FormatPercentage renders "30%", or Undefined.
func FormatPercentage(p core.Percentage) string {
	v, ok := p.Get()
	if !ok {
		return Undefined
	}
	return strconv.FormatInt(v, 10) + "%"
}

// MonthLabel renders "October 2026".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// groupedFixed inserts a comma on every thousands boundary of the integer
// part, so it holds for values of any size.
func groupedFixed(v decimal.Decimal) string {
	intPart, frac, _ := strings.Cut(v.StringFixed(2), ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "." + frac
}
