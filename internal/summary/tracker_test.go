package summary

import (
	"context"
	"testing"
	"time"

	"riepilogo/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRejectsStaleResult(t *testing.T) {
	tr := NewTracker()
	ctx1, gen1 := tr.Begin(context.Background())
	_, gen2 := tr.Begin(context.Background())

	assert.Greater(t, gen2, gen1)
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "superseded selection is cancelled")

	assert.False(t, tr.Apply(Result{Generation: gen1, Period: core.NewPeriod(2025, 1)}))
	_, ok := tr.Latest()
	assert.False(t, ok)

	assert.True(t, tr.Apply(Result{Generation: gen2, Period: core.NewPeriod(2025, 2)}))
	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, core.NewPeriod(2025, 2), latest.Period)
	assert.Equal(t, gen2, tr.Generation())
}

func TestEngineTrackLatestSelectionWins(t *testing.T) {
	r := newFakeReader()
	slow := core.NewPeriod(2025, 3)
	fast := core.NewPeriod(2025, 4)
	r.set(slow, "10", cat("Food", "10"))
	r.set(fast, "20", cat("Food", "20"))
	r.block[slow] = make(chan struct{})

	e := NewEngine(r, nil)
	tr := NewTracker()

	type outcome struct {
		res     Result
		applied bool
	}
	slowDone := make(chan outcome, 1)
	go func() {
		res, applied := e.Track(context.Background(), tr, slow, false)
		slowDone <- outcome{res, applied}
	}()

	require.Eventually(t, func() bool { return tr.Generation() == 1 }, time.Second, time.Millisecond)

	res, applied := e.Track(context.Background(), tr, fast, false)
	require.NoError(t, res.Err)
	assert.True(t, applied)

	var o outcome
	select {
	case o = <-slowDone:
	case <-time.After(2 * time.Second):
		t.Fatal("stale selection did not finish after cancellation")
	}
	assert.False(t, o.applied)
	assert.ErrorIs(t, o.res.Err, context.Canceled)

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, fast, latest.Period)
	assertDecimal(t, "20", latest.Comparison.Current.Total)
}

func TestTrackerStop(t *testing.T) {
	tr := NewTracker()
	ctx, _ := tr.Begin(context.Background())
	tr.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	tr.Stop()
}

func TestEngineTrackAsync(t *testing.T) {
	r := newFakeReader()
	slow := core.NewPeriod(2025, 3)
	fast := core.NewPeriod(2025, 4)
	r.set(slow, "10", cat("Food", "10"))
	r.set(fast, "20", cat("Food", "20"))
	r.block[slow] = make(chan struct{})

	e := NewEngine(r, nil)
	tr := NewTracker()

	gen1, done1 := e.TrackAsync(context.Background(), tr, slow, false)
	gen2, done2 := e.TrackAsync(context.Background(), tr, fast, false)
	assert.Equal(t, uint64(1), gen1)
	assert.Equal(t, uint64(2), gen2)

	res2 := <-done2
	require.NoError(t, res2.Err)
	res1 := <-done1
	assert.ErrorIs(t, res1.Err, context.Canceled)

	_, open := <-done1
	assert.False(t, open, "channel is closed after the result")

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, gen2, latest.Generation)
	assert.Equal(t, fast, latest.Period)
}
