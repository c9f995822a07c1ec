package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPeriodValidate(t *testing.T) {
	cases := []struct {
		p     Period
		ok    bool
		field string
	}{
		{NewPeriod(2025, 1), true, ""},
		{NewPeriod(2025, 12), true, ""},
		{NewPeriod(2025, 0), false, "month"},
		{NewPeriod(2025, 13), false, "month"},
		{NewPeriod(999, 5), false, "year"},
		{NewPeriod(10000, 5), false, "year"},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d expected ok, got %v", i, err)
			}
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d expected ValidationError, got %v", i, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("case %d expected field %q, got %q", i, tc.field, ve.Field)
		}
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("case %d expected errors.Is ErrInvalidPeriod", i)
		}
	}
}

func TestPeriodPrevious(t *testing.T) {
	if got := NewPeriod(2025, 1).Previous(); got != NewPeriod(2024, 12) {
		t.Fatalf("january should roll back to december of previous year, got %v", got)
	}
	if got := NewPeriod(2025, 3).Previous(); got != NewPeriod(2025, 2) {
		t.Fatalf("expected 2025-02, got %v", got)
	}
}

func TestPeriodContainsAndLabel(t *testing.T) {
	p := NewPeriod(2025, 3)
	if !p.Contains(NewDate(2025, 3, 31)) {
		t.Fatalf("expected march 31 inside period")
	}
	if p.Contains(NewDate(2024, 3, 1)) {
		t.Fatalf("same month of another year must not match")
	}
	if p.Contains(Date{}) {
		t.Fatalf("zero date must not match")
	}
	if p.Label() != "March 2025" {
		t.Fatalf("unexpected label %q", p.Label())
	}
	if p.String() != "2025-03" {
		t.Fatalf("unexpected string %q", p.String())
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:    "Groceries",
		Amount:   decimal.RequireFromString("12.50"),
		Category: "Food",
		Date:     NewDate(2025, 3, 2),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount is allowed, got %v", err)
	}

	bads := []struct {
		e    Expense
		want error
	}{
		{Expense{Title: "", Amount: decimal.NewFromInt(1), Category: "c", Date: NewDate(2025, 1, 1)}, ErrEmptyTitle},
		{Expense{Title: "a", Amount: decimal.NewFromInt(-1), Category: "c", Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{Expense{Title: "a", Amount: decimal.NewFromInt(1), Category: " ", Date: NewDate(2025, 1, 1)}, ErrEmptyCategory},
		{Expense{Title: "a", Amount: decimal.NewFromInt(1), Category: "c"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseJSONAcceptsStringAmounts(t *testing.T) {
	var e Expense
	body := `{"id":"7","title":"Taxi","amount":"19.999","category":"Travel","date":"2025-02-14T00:00:00"}`
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Amount.Equal(decimal.RequireFromString("19.999")) {
		t.Fatalf("amount lost precision: %s", e.Amount)
	}
	if e.Date.Period() != NewPeriod(2025, 2) {
		t.Fatalf("unexpected period %v", e.Date.Period())
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `"date":"2025-02-14"`; !strings.Contains(string(out), want) {
		t.Fatalf("expected %s in %s", want, out)
	}
}

func TestStyleForIsTotal(t *testing.T) {
	if s := StyleFor("Food"); s.Color != "#FF6B6B" || !s.Known {
		t.Fatalf("unexpected food style %+v", s)
	}
	if s := StyleFor("Pets"); s.Color != DefaultCategoryColor || s.Known || s.Label != "Pets" {
		t.Fatalf("unknown category should fall back, got %+v", s)
	}
	if s := StyleFor(""); s.Label != UncategorizedLabel {
		t.Fatalf("empty category should get the uncategorized label, got %+v", s)
	}
}

func TestFilterByCategoryIsExact(t *testing.T) {
	in := []Expense{
		{Title: "a", Category: "Food"},
		{Title: "b", Category: "Food "},
		{Title: "c", Category: "food"},
		{Title: "d", Category: ""},
		{Title: "e", Category: "Food"},
	}
	cases := map[string]string{
		"Food":  "a,e",
		"Food ": "b",
		"food":  "c",
		"":      "d",
		"Rent":  "",
	}
	for category, want := range cases {
		var got []string
		for _, e := range FilterByCategory(in, category) {
			got = append(got, e.Title)
		}
		if strings.Join(got, ",") != want {
			t.Fatalf("category %q: got %v, want %s", category, got, want)
		}
	}
}
