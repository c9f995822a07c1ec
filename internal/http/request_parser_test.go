package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"riepilogo/internal/core"
)

func TestParsePeriodParams(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		values  url.Values
		want    core.Period
		wantErr string
	}{
		{"all values provided", url.Values{"year": {"2024"}, "month": {"6"}}, core.NewPeriod(2024, 6), ""},
		{"only month", url.Values{"month": {"3"}}, core.NewPeriod(2025, 3), ""},
		{"empty uses now", url.Values{}, core.NewPeriod(2025, 7), ""},
		{"whitespace is trimmed", url.Values{"month": {" 12 "}, "year": {" 2024"}}, core.NewPeriod(2024, 12), ""},
		{"out of range is not checked", url.Values{"month": {"13"}}, core.NewPeriod(2025, 13), ""},
		{"non numeric month", url.Values{"month": {"abc"}}, core.Period{}, "month"},
		{"non numeric year", url.Values{"year": {"20x5"}}, core.Period{}, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriodParams(tt.values, now)
			if tt.wantErr != "" {
				var ve *core.ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantErr {
					t.Fatalf("ParsePeriodParams() error = %v, want ValidationError on %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriodParams() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriodParams() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"false", true, false},
		{"1", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := ParseBoolParam(url.Values{"previous": {tt.value}}, "previous", tt.def); got != tt.want {
			t.Errorf("ParseBoolParam(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"  Taxi\u0001 ","amount":12.5,"month":3,"flag":true}`))
	req.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON body")
	}
	if got := p.Get("title"); got != "Taxi" {
		t.Errorf("Get(title) = %q, want sanitized %q", got, "Taxi")
	}
	if got := p.Get("amount"); got != "12.5" {
		t.Errorf("Get(amount) = %q, want 12.5", got)
	}
	values := p.Values()
	if values.Get("month") != "3" || values.Get("flag") != "true" {
		t.Errorf("Values() = %v", values)
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Rent&amount=800&category=Rent"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.IsJSON() {
		t.Fatal("form body reported as JSON")
	}
	if p.Get("category") != "Rent" || p.Get("missing") != "" {
		t.Errorf("unexpected form values %v", p.Values())
	}
	// A second Parse is a no-op.
	if err := p.Parse(); err != nil {
		t.Fatalf("second Parse() error = %v", err)
	}
}

func TestRequestBodyParser_Empty(t *testing.T) {
	p := NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", nil))
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(p.Values()) != 0 {
		t.Fatalf("expected no values, got %v", p.Values())
	}
}

func TestParseExpense(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"valid", `{"title":"Rent","amount":"800.00","category":"Rent","date":"2025-03-01"}`, nil},
		{"comma decimal", "title=Taxi&amount=12,50&category=Travel&date=2025-03-02", nil},
		{"missing amount", `{"title":"Rent","category":"Rent","date":"2025-03-01"}`, core.ErrInvalidAmount},
		{"missing date", `{"title":"Rent","amount":"1","category":"Rent"}`, core.ErrInvalidDate},
		{"blank category", `{"title":"Rent","amount":"1","category":" ","date":"2025-03-01"}`, core.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			e, err := NewRequestBodyParser(req).ParseExpense()
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("ParseExpense() error = %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExpense() error = %v", err)
			}
			if e.Date.IsZero() || e.Amount.IsZero() {
				t.Fatalf("incomplete expense %+v", e)
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if RequireMethod(req, http.MethodGet) != nil {
		t.Fatal("matching method should pass")
	}
	resp := RequireMethod(req, http.MethodPost, http.MethodPut)
	if resp == nil {
		t.Fatal("expected a rejection")
	}
	rr := httptest.NewRecorder()
	resp.Write(rr)
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != "POST, PUT" {
		t.Fatalf("status=%d allow=%q", rr.Code, rr.Header().Get("Allow"))
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Fatalf("sanitizeInput() = %q", got)
	}
}
