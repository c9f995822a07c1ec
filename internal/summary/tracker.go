package summary

import (
	"context"
	"sync"

	"riepilogo/internal/core"
)

// Result is one selection's outcome as held by a Tracker.
type Result struct {
	Generation      uint64
	Period          core.Period
	IncludePrevious bool
	Comparison      Comparison
	Err             error
}

// Tracker holds the latest selection result for one caller. Every Begin
// supersedes the previous selection: its context is cancelled and its
// result will be rejected by Apply.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *Result
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin starts a new selection and returns its context and generation.
func (t *Tracker) Begin(ctx context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	cctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	return cctx, t.gen
}

// Apply stores r if r.Generation is still the latest one.
func (t *Tracker) Apply(r Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r.Generation != t.gen {
		return false
	}
	t.latest = &r
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// Latest returns the most recently applied result.
func (t *Tracker) Latest() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return Result{}, false
	}
	return *t.latest, true
}

// Generation returns the generation of the most recent Begin.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Stop cancels the in-flight selection, if any.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
