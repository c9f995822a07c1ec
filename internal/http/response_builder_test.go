package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"riepilogo/internal/core"
	"riepilogo/internal/store"
	"riepilogo/internal/store/remote"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Test") != "1" {
		t.Errorf("custom header missing")
	}
	var got map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got["n"] != 1 {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		builder *JSONResponseBuilder
		want    int
	}{
		{"bad request", BadRequestError("x"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("x"), http.StatusUnprocessableEntity},
		{"internal", InternalServerError("x"), http.StatusInternalServerError},
		{"not found", NotFoundError("x"), http.StatusNotFound},
		{"bad gateway", BadGatewayError("x"), http.StatusBadGateway},
		{"unavailable", ServiceUnavailableError("x"), http.StatusServiceUnavailable},
		{"too many", TooManyRequestsError(), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Errorf("error body = %q", w.Body.String())
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	p := core.NewPeriod(2025, 3)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"period", core.NewPeriod(2025, 13).Validate(), http.StatusBadRequest},
		{"amount", fmt.Errorf("wrap: %w", core.ErrInvalidAmount), http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("delete 9: %w", store.ErrNotFound), http.StatusNotFound},
		{"fetch", &core.FetchError{Op: "month_total", Period: p, Err: fmt.Errorf("boom")}, http.StatusBadGateway},
		{"upstream status", &remote.StatusError{Method: "GET", Path: "/expenses", Code: 500}, http.StatusBadGateway},
		{"inconsistent", core.ErrInconsistentTotals, http.StatusBadGateway},
		{"deadline", &core.FetchError{Op: "month_total", Period: p, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err).StatusCode(); got != tt.want {
				t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
