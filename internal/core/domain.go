package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  Category = "inc"
	Expense Category = "exp"
)

// MaxDescriptionLength is counted in characters, not bytes.
const MaxDescriptionLength = 200

type (
	// Category partitions entries. Its value doubles as the row id prefix.
	Category string

	// Entry is one income or expense line item. Percentage is only
	// meaningful for expenses and stays undefined for income.
	Entry struct {
		ID          int
		Description string
		Value       decimal.Decimal
		Category    Category
		Percentage  Percentage
	}

	// Summary is a read-only snapshot of the ledger aggregates.
	Summary struct {
		Budget          decimal.Decimal
		TotalIncome     decimal.Decimal
		TotalExpense    decimal.Decimal
		SpendPercentage Percentage
	}
)

var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidValue       = errors.New("invalid value")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidItemID      = errors.New("invalid item id")
)

// Categories lists the categories in display order.
func Categories() []Category {
	return []Category{Income, Expense}
}

// ParseCategory accepts the row prefix or the long name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inc", "income":
		return Income, nil
	case "exp", "expense":
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

func (c Category) Valid() bool {
	return c == Income || c == Expense
}

// Name returns the long form used in logs and events.
func (c Category) Name() string {
	switch c {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return string(c)
	}
}

// ItemID is the row identifier "<prefix>-<id>".
func (e Entry) ItemID() string {
	return FormatItemID(e.Category, e.ID)
}

func FormatItemID(c Category, id int) string {
	return string(c) + "-" + strconv.Itoa(id)
}

// ParseItemID splits a row identifier such as "exp-3".
func ParseItemID(s string) (Category, int, error) {
	prefix, rawID, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidItemID, s)
	}
	cat, err := ParseCategory(prefix)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidItemID, s)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidItemID, s)
	}
	return cat, id, nil
}

// ValidateDescription rejects blank descriptions and returns the trimmed text.
func ValidateDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyDescription
	}
	if n := utf8.RuneCountInString(s); n > MaxDescriptionLength {
		return "", fmt.Errorf("%w: %d characters, max %d", ErrDescriptionTooLong, n, MaxDescriptionLength)
	}
	return s, nil
}
