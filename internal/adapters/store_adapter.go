package adapters

import (
	"context"

	"riepilogo/internal/core"
	"riepilogo/internal/services"
	"riepilogo/internal/store"
)

// StoreAdapter serves reads from the underlying store and routes writes
// through an ExpenseService, so HTTP handlers work unchanged when exports
// follow every mutation.
type StoreAdapter struct {
	store.Store
	service *services.ExpenseService
}

func NewStoreAdapter(st store.Store, service *services.ExpenseService) *StoreAdapter {
	return &StoreAdapter{Store: st, service: service}
}

// Create implements store.ExpenseWriter
func (a *StoreAdapter) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	return a.service.Create(ctx, e)
}

// Update implements store.ExpenseWriter
func (a *StoreAdapter) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	return a.service.Update(ctx, id, e)
}

// Delete implements store.ExpenseWriter
func (a *StoreAdapter) Delete(ctx context.Context, id string) error {
	return a.service.Delete(ctx, id)
}

// Ping forwards readiness checks to stores that support them.
func (a *StoreAdapter) Ping(ctx context.Context) error {
	if p, ok := a.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

var _ store.Store = (*StoreAdapter)(nil)
