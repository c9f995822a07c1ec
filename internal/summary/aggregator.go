// Package summary computes period summaries and month-over-month
// comparisons on top of a store.PeriodReader.
package summary

import (
	"context"
	"strings"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Operation names carried by core.FetchError.
const (
	OpMonthTotal     = "month_total"
	OpCategoryTotals = "category_totals"
)

// Aggregator builds a PeriodSummary from the two independent store reads.
type Aggregator struct {
	reader store.PeriodReader
	logger *log.Logger
}

func NewAggregator(reader store.PeriodReader, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Aggregator{reader: reader, logger: logger.WithComponent(log.ComponentSummary)}
}

// Aggregate validates p, then reads the month total and the category
// breakdown concurrently. A failure of either read fails the whole
// aggregation with a *core.FetchError and cancels the other read.
//
// The reads are not transactional, so the store total may disagree with the
// category sum when a write lands in between. The summary total is always
// the category sum; a disagreement is only logged.
func (a *Aggregator) Aggregate(ctx context.Context, p core.Period) (core.PeriodSummary, error) {
	if err := p.Validate(); err != nil {
		return core.PeriodSummary{}, err
	}

	var (
		total decimal.Decimal
		cats  []core.CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := a.reader.MonthTotal(gctx, p)
		if err != nil {
			return &core.FetchError{Op: OpMonthTotal, Period: p, Err: err}
		}
		total = t
		return nil
	})
	g.Go(func() error {
		c, err := a.reader.CategoryTotals(gctx, p)
		if err != nil {
			return &core.FetchError{Op: OpCategoryTotals, Period: p, Err: err}
		}
		cats = c
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.WarnContext(ctx, "Period aggregation failed",
			log.NewFields().WithPeriod(p).WithOperation(log.OpAggregate).WithError(err).ToSlice()...)
		return core.PeriodSummary{}, err
	}

	cats = normalizeCategories(cats)
	s := core.PeriodSummary{Period: p, Total: core.SumCategories(cats), Categories: cats}
	if !core.SameAtDisplayPrecision(total, s.Total) {
		a.logger.WarnContext(ctx, "Store total disagrees with category sum",
			log.NewFields().WithPeriod(p).WithSummary(s).WithStoreTotal(total).ToSlice()...)
	}
	a.logger.DebugContext(ctx, "Period aggregated",
		log.NewFields().WithPeriod(p).WithSummary(s).ToSlice()...)
	return s, nil
}

// normalizeCategories drops zero totals, labels blank categories and merges
// entries that end up with the same label. Order of first appearance is kept.
func normalizeCategories(in []core.CategoryTotal) []core.CategoryTotal {
	out := make([]core.CategoryTotal, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		if c.Total.IsZero() {
			continue
		}
		label := strings.TrimSpace(c.Category)
		if label == "" {
			label = core.UncategorizedLabel
		}
		if i, ok := index[label]; ok {
			out[i].Total = out[i].Total.Add(c.Total)
			continue
		}
		index[label] = len(out)
		out = append(out, core.CategoryTotal{Category: label, Total: c.Total})
	}
	return out
}
