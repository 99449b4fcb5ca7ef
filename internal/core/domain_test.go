package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"inc", Income, true},
		{"income", Income, true},
		{" EXP ", Expense, true},
		{"expense", Expense, true},
		{"", "", false},
		{"savings", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("%q expected ErrInvalidCategory, got %v", tc.in, err)
		}
	}
}

func TestItemIDRoundTrip(t *testing.T) {
	e := Entry{ID: 7, Category: Expense}
	if e.ItemID() != "exp-7" {
		t.Fatalf("ItemID = %q", e.ItemID())
	}
	cat, id, err := ParseItemID("inc-12")
	if err != nil || cat != Income || id != 12 {
		t.Fatalf("ParseItemID(inc-12) = %s, %d, %v", cat, id, err)
	}
}

func TestParseItemIDRejects(t *testing.T) {
	for _, in := range []string{"", "inc", "inc-", "foo-1", "exp-x", "exp--1"} {
		if _, _, err := ParseItemID(in); !errors.Is(err, ErrInvalidItemID) {
			t.Fatalf("%q expected ErrInvalidItemID, got %v", in, err)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if got, err := ValidateDescription("  Salary "); err != nil || got != "Salary" {
		t.Fatalf("expected trimmed description, got %q (err=%v)", got, err)
	}
	if _, err := ValidateDescription("   "); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestValidateDescriptionCountsCharacters(t *testing.T) {
	atLimit := strings.Repeat("é", MaxDescriptionLength)
	if got, err := ValidateDescription(atLimit); err != nil || got != atLimit {
		t.Fatalf("expected %d two-byte characters to pass, got err=%v", MaxDescriptionLength, err)
	}
	_, err := ValidateDescription(atLimit + "é")
	if !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}
