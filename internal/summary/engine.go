package summary

import (
	"context"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/store"

	"github.com/shopspring/decimal"
)

// Comparison is a current period summary with an optional previous one.
type Comparison struct {
	Current      core.PeriodSummary  `json:"current"`
	Previous     *core.PeriodSummary `json:"previous,omitempty"`
	DeltaPercent decimal.NullDecimal `json:"delta_percent"`
}

// Increase reports whether the current total grew relative to the previous.
func (c Comparison) Increase() bool {
	return IsIncrease(c.DeltaPercent)
}

// Engine runs comparisons. It holds no per-request state.
type Engine struct {
	agg    *Aggregator
	logger *log.Logger
}

func NewEngine(reader store.PeriodReader, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Discard()
	}
	return &Engine{
		agg:    NewAggregator(reader, logger),
		logger: logger.WithComponent(log.ComponentSummary),
	}
}

// Aggregate returns the summary of a single period.
func (e *Engine) Aggregate(ctx context.Context, p core.Period) (core.PeriodSummary, error) {
	return e.agg.Aggregate(ctx, p)
}

// Compare aggregates p and, when includePrevious is set, the month before
// it. The previous month is only read after the current one succeeded.
//
// A failure on p returns the zero Comparison. A failure on the previous
// month returns a Comparison with Current set together with a
// *core.ComparisonPartialFailure.
func (e *Engine) Compare(ctx context.Context, p core.Period, includePrevious bool) (Comparison, error) {
	current, err := e.agg.Aggregate(ctx, p)
	if err != nil {
		return Comparison{}, err
	}
	out := Comparison{Current: current}
	if !includePrevious {
		return out, nil
	}

	prevPeriod := p.Previous()
	previous, err := e.agg.Aggregate(ctx, prevPeriod)
	if err != nil {
		e.logger.WarnContext(ctx, "Previous period unavailable, keeping current",
			log.NewFields().WithPeriod(p).WithError(err).WithOperation(log.OpCompare).ToSlice()...)
		return out, &core.ComparisonPartialFailure{Current: current, Previous: prevPeriod, Err: err}
	}

	out.Previous = &previous
	out.DeltaPercent = DeltaPercent(current.Total, previous.Total)
	e.logger.InfoContext(ctx, "Comparison computed",
		log.NewFields().WithPeriod(p).WithSummary(current).WithDelta(out.DeltaPercent).ToSlice()...)
	return out, nil
}

// Track runs Compare under t. The result is stored in t only if no newer
// selection began in the meantime; applied reports whether that happened.
func (e *Engine) Track(ctx context.Context, t *Tracker, p core.Period, includePrevious bool) (res Result, applied bool) {
	tctx, gen := t.Begin(ctx)
	return e.run(tctx, t, gen, p, includePrevious)
}

// TrackAsync begins a selection on t and runs it in the background. The
// returned channel receives the outcome, applied or not, and is then closed.
func (e *Engine) TrackAsync(ctx context.Context, t *Tracker, p core.Period, includePrevious bool) (uint64, <-chan Result) {
	tctx, gen := t.Begin(ctx)
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		res, _ := e.run(tctx, t, gen, p, includePrevious)
		done <- res
	}()
	return gen, done
}

func (e *Engine) run(ctx context.Context, t *Tracker, gen uint64, p core.Period, includePrevious bool) (Result, bool) {
	cmp, err := e.Compare(ctx, p, includePrevious)
	res := Result{
		Generation:      gen,
		Period:          p,
		IncludePrevious: includePrevious,
		Comparison:      cmp,
		Err:             err,
	}
	applied := t.Apply(res)
	if !applied {
		e.logger.DebugContext(ctx, "Discarding stale comparison",
			log.NewFields().WithPeriod(p).WithGeneration(gen).ToSlice()...)
	}
	return res, applied
}
