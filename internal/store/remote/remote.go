// Package remote is an HTTP client for the original expense tracker API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"riepilogo/internal/core"
	"riepilogo/internal/store"

	"github.com/shopspring/decimal"
)

// AccessTokenCookie is the cookie the remote store authenticates with.
const AccessTokenCookie = "access_token"

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAccessToken forwards token as the access_token cookie.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for baseURL. Requests carry no client-side timeout;
// they end when the caller's context does.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid store base url %q", baseURL)
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// wireExpense mirrors the remote JSON: numeric ids and amounts.
type wireExpense struct {
	ID       json.Number     `json:"id,omitempty"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     core.Date       `json:"date"`
}

type wireExpenseInput struct {
	Title    string      `json:"title"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     core.Date   `json:"date"`
}

func (w wireExpense) toCore() core.Expense {
	return core.Expense{
		ID:       w.ID.String(),
		Title:    w.Title,
		Amount:   w.Amount,
		Category: w.Category,
		Date:     w.Date,
	}
}

func toInput(e core.Expense) wireExpenseInput {
	return wireExpenseInput{
		Title:    e.Title,
		Amount:   json.Number(e.Amount.String()),
		Category: e.Category,
		Date:     e.Date,
	}
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var wire []wireExpense
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]core.Expense, len(wire))
	for i, w := range wire {
		out[i] = w.toCore()
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	var w wireExpense
	if err := c.do(ctx, http.MethodPost, "/expenses", nil, toInput(e), &w); err != nil {
		return core.Expense{}, err
	}
	return w.toCore(), nil
}

func (c *Client) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	var w wireExpense
	if err := c.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(id), nil, toInput(e), &w); err != nil {
		return core.Expense{}, notFound(err, id)
	}
	return w.toCore(), nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return notFound(err, id)
	}
	return nil
}

// MonthTotal calls GET /expenses/summary/monthly.
func (c *Client) MonthTotal(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	var body struct {
		Total decimal.NullDecimal `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/expenses/summary/monthly", periodQuery(p), nil, &body); err != nil {
		return decimal.Zero, err
	}
	if !body.Total.Valid {
		return decimal.Zero, nil
	}
	return body.Total.Decimal, nil
}

// CategoryTotals calls GET /expenses/summary/category.
func (c *Client) CategoryTotals(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	var out []core.CategoryTotal
	if err := c.do(ctx, http.MethodGet, "/expenses/summary/category", periodQuery(p), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func periodQuery(p core.Period) url.Values {
	return url.Values{
		"month": {strconv.Itoa(p.Month)},
		"year":  {strconv.Itoa(p.Year)},
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: c.token})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "Store request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func notFound(err error, id string) error {
	if se, ok := err.(*StatusError); ok && se.Code == http.StatusNotFound {
		return fmt.Errorf("expense %s: %w", id, store.ErrNotFound)
	}
	return err
}

var _ store.Store = (*Client)(nil)
