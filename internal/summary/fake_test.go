package summary

import (
	"context"
	"errors"
	"sync"

	"riepilogo/internal/core"

	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store down")

type periodData struct {
	total string
	cats  [][2]string
}

// fakeReader serves canned aggregates per period and records every call.
type fakeReader struct {
	mu        sync.Mutex
	data      map[core.Period]periodData
	failTotal map[core.Period]bool
	failCats  map[core.Period]bool
	block     map[core.Period]chan struct{}
	calls     []string
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		data:      map[core.Period]periodData{},
		failTotal: map[core.Period]bool{},
		failCats:  map[core.Period]bool{},
		block:     map[core.Period]chan struct{}{},
	}
}

func (f *fakeReader) set(p core.Period, total string, cats ...[2]string) {
	f.data[p] = periodData{total: total, cats: cats}
}

func (f *fakeReader) record(op string, p core.Period) (periodData, chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+":"+p.String())
	return f.data[p], f.block[p]
}

func (f *fakeReader) calledFor(p core.Period) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if len(c) >= 7 && c[len(c)-7:] == p.String() {
			return true
		}
	}
	return false
}

func (f *fakeReader) MonthTotal(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	d, wait := f.record("total", p)
	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		}
	}
	if f.failTotal[p] {
		return decimal.Zero, errStoreDown
	}
	if d.total == "" {
		return decimal.Zero, nil
	}
	return decimal.RequireFromString(d.total), nil
}

func (f *fakeReader) CategoryTotals(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	d, wait := f.record("cats", p)
	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failCats[p] {
		return nil, errStoreDown
	}
	out := make([]core.CategoryTotal, 0, len(d.cats))
	for _, c := range d.cats {
		out = append(out, core.CategoryTotal{Category: c[0], Total: decimal.RequireFromString(c[1])})
	}
	return out, nil
}

func cat(name, total string) [2]string { return [2]string{name, total} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
