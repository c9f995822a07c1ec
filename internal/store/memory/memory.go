package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"riepilogo/internal/core"
	"riepilogo/internal/store"

	"github.com/shopspring/decimal"
)

// Store keeps expenses in process memory. Aggregates list categories in the
// order they were first seen.
type Store struct {
	mu     sync.RWMutex
	nextID int
	items  []core.Expense
}

func New(seed ...core.Expense) *Store {
	s := &Store{}
	for _, e := range seed {
		if n, err := strconv.Atoi(e.ID); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	for _, e := range seed {
		if e.ID == "" {
			s.nextID++
			e.ID = strconv.Itoa(s.nextID)
		}
		s.items = append(s.items, e)
	}
	return s
}

// NewFromFile seeds the store from a JSON array of expenses. An empty path
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []core.Expense
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	for i, e := range seed {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("seed expense %d: %w", i, err)
		}
	}
	return New(seed...), nil
}

// ListExpenses returns a copy of every expense in insertion order.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense(nil), s.items...), nil
}

// Create stores the expense under a new id.
func (s *Store) Create(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = strconv.Itoa(s.nextID)
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) Update(_ context.Context, id string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			e.ID = id
			s.items[i] = e
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("update %s: %w", id, store.ErrNotFound)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
}

// MonthTotal sums every amount dated inside p.
func (s *Store) MonthTotal(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range s.items {
		if p.Contains(e.Date) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// CategoryTotals groups the amounts dated inside p by category.
func (s *Store) CategoryTotals(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := map[string]int{}
	var out []core.CategoryTotal
	for _, e := range s.items {
		if !p.Contains(e.Date) {
			continue
		}
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
