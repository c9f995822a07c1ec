// Package gsheets writes export workbooks to a Google Sheets spreadsheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"riepilogo/internal/report"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Credentials selects how the Sheets service authenticates. A service
// account takes precedence over an OAuth client and token pair.
type Credentials struct {
	ServiceAccountJSON []byte
	OAuthClientJSON    []byte
	OAuthTokenJSON     []byte
}

// CredentialSources names inline JSON or file paths for each credential.
// Inline JSON wins over a file.
type CredentialSources struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	OAuthClientJSON    string
	OAuthClientFile    string
	OAuthTokenJSON     string
	OAuthTokenFile     string
}

// LoadCredentials resolves every source into raw JSON.
func LoadCredentials(src CredentialSources) (Credentials, error) {
	var (
		c   Credentials
		err error
	)
	if c.ServiceAccountJSON, err = inlineOrFile(src.ServiceAccountJSON, src.ServiceAccountFile); err != nil {
		return c, fmt.Errorf("service account: %w", err)
	}
	if c.OAuthClientJSON, err = inlineOrFile(src.OAuthClientJSON, src.OAuthClientFile); err != nil {
		return c, fmt.Errorf("oauth client: %w", err)
	}
	if c.OAuthTokenJSON, err = inlineOrFile(src.OAuthTokenJSON, src.OAuthTokenFile); err != nil {
		return c, fmt.Errorf("oauth token: %w", err)
	}
	if len(c.ServiceAccountJSON) == 0 && (len(c.OAuthClientJSON) == 0 || len(c.OAuthTokenJSON) == 0) {
		return c, errors.New("missing credentials (set a service account, or an oauth client and token)")
	}
	return c, nil
}

func inlineOrFile(inline, path string) ([]byte, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return []byte(s), nil
	}
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		return b, nil
	}
	return nil, nil
}

// NewService initializes a Sheets service from credentials.
func NewService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	if len(creds.ServiceAccountJSON) > 0 {
		slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
			"credentials_size", len(creds.ServiceAccountJSON))
		svc, err := gsheet.NewService(ctx,
			goption.WithCredentialsJSON(creds.ServiceAccountJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		return svc, nil
	}

	pooled := context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	ts, err := OAuthTokenSource(pooled, creds.OAuthClientJSON, creds.OAuthTokenJSON)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Creating Google Sheets service with OAuth token")
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauth2.NewClient(pooled, ts)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// OAuthTokenSource builds a refreshing token source from an installed-app
// client and a token saved by oauth-init.
func OAuthTokenSource(ctx context.Context, clientJSON, tokenJSON []byte) (oauth2.TokenSource, error) {
	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	tok, err := ParseToken(tokenJSON)
	if err != nil {
		return nil, err
	}
	return cfg.TokenSource(ctx, tok), nil
}

// newHTTPClientWithPooling creates an HTTP client tuned for the Sheets API.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

// Writer replaces the Expenses and Summary tabs of one spreadsheet.
type Writer struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func NewWriter(svc *gsheet.Service, spreadsheetID string) (*Writer, error) {
	if svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	return &Writer{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// WriteWorkbook ensures both tabs exist, clears them and writes wb. It
// returns a reference to the written ranges.
func (w *Writer) WriteWorkbook(ctx context.Context, wb report.Workbook) (string, error) {
	if err := w.ensureSheets(ctx, report.SheetExpenses, report.SheetSummary); err != nil {
		return "", err
	}

	clearReq := &gsheet.BatchClearValuesRequest{Ranges: []string{report.SheetExpenses, report.SheetSummary}}
	if _, err := w.svc.Spreadsheets.Values.BatchClear(w.spreadsheetID, clearReq).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear export tabs: %w", err)
	}

	expenses := ExpenseValues(wb)
	summary := SummaryValues(wb)
	update := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*gsheet.ValueRange{
			{Range: fmt.Sprintf("%s!A1", report.SheetExpenses), Values: expenses},
			{Range: fmt.Sprintf("%s!A1", report.SheetSummary), Values: summary},
		},
	}
	if _, err := w.svc.Spreadsheets.Values.BatchUpdate(w.spreadsheetID, update).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write export tabs: %w", err)
	}

	ref := fmt.Sprintf("%s!A1:D%d,%s!A1:E%d", report.SheetExpenses, len(expenses), report.SheetSummary, len(summary))
	slog.InfoContext(ctx, "Workbook written to Google Sheets",
		"spreadsheet_id", w.spreadsheetID,
		"rows", len(wb.Expenses),
		"categories", len(wb.Categories),
		"ref", ref)
	return ref, nil
}

func (w *Writer) ensureSheets(ctx context.Context, names ...string) error {
	ss, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	existing := map[string]bool{}
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = true
		}
	}
	var reqs []*gsheet.Request
	for _, n := range names {
		if !existing[n] {
			reqs = append(reqs, &gsheet.Request{AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: n},
			}})
		}
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err = w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add export tabs: %w", err)
	}
	return nil
}

// ExpenseValues lays out the Expenses tab: title, header, then one row per
// expense in input order.
func ExpenseValues(wb report.Workbook) [][]any {
	rows := make([][]any, 0, len(wb.Expenses)+2)
	rows = append(rows, []any{wb.Title}, headerRow(report.ExpenseHeaders))
	for _, r := range wb.Expenses {
		rows = append(rows, []any{r.Title, r.Amount.InexactFloat64(), r.Category, r.Date.String()})
	}
	return rows
}

// SummaryValues lays out the Summary tab with the grand total beside the
// header row.
func SummaryValues(wb report.Workbook) [][]any {
	rows := make([][]any, 0, len(wb.Categories)+2)
	header := append(headerRow(report.SummaryHeaders), "", report.GrandTotalLabel, wb.GrandTotal.InexactFloat64())
	rows = append(rows, []any{report.SummaryTitle}, header)
	for _, r := range wb.Categories {
		rows = append(rows, []any{r.Category, r.Total.InexactFloat64()})
	}
	return rows
}

func headerRow(h []string) []any {
	out := make([]any, len(h))
	for i, v := range h {
		out[i] = v
	}
	return out
}
