// Package core provides the ledger domain types and value parsing.
//
// This file contains the parsing of raw form input into entry values
// and the optional percentage type used for spend ratios.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = decimal.NewFromInt(math.MaxInt64)
)

// maxIntegerDigits bounds entry values to what a float64 holds exactly.
const maxIntegerDigits = 15

// ParseValue converts a raw input string into a positive entry value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, the same
// way the entry form is typed in. Empty, non-numeric, zero and negative
// inputs return ErrInvalidValue, as do values with more than 15 integer
// digits.
//
// Examples:
//
//	ParseValue("1000")    -> 1000, nil
//	ParseValue("12,5")    -> 12.5, nil
//	ParseValue("-3")      -> 0, ErrInvalidValue
//	ParseValue("abc")     -> 0, ErrInvalidValue
func ParseValue(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidValue
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	// decimal accepts exponents; keep the form strictly numeric.
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidValue
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidValue
	}
	if !v.IsPositive() {
		return decimal.Zero, ErrInvalidValue
	}
	if len(v.Truncate(0).String()) > maxIntegerDigits {
		return decimal.Zero, ErrInvalidValue
	}
	return v, nil
}

// Percentage is a whole-number percent that may be undefined.
// The zero value is undefined.
type Percentage struct {
	Value   int64
	Defined bool
}

// Undefined is the percentage reported when total income is zero.
func Undefined() Percentage {
	return Percentage{}
}

// PercentOf returns round(part / whole * 100), or Undefined when whole is
// not positive. Rounding is half away from zero. Results beyond int64
// saturate at math.MaxInt64.
func PercentOf(part, whole decimal.Decimal) Percentage {
	if !whole.IsPositive() {
		return Undefined()
	}
	p := part.Mul(hundred).Div(whole).Round(0)
	if p.GreaterThan(maxPercent) {
		return Percentage{Value: math.MaxInt64, Defined: true}
	}
	return Percentage{Value: p.IntPart(), Defined: true}
}

// Get returns the value and whether it is defined.
func (p Percentage) Get() (int64, bool) {
	return p.Value, p.Defined
}
