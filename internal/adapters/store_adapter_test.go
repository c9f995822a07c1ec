package adapters

import (
	"context"
	"errors"
	"testing"

	"riepilogo/internal/amqp"
	"riepilogo/internal/core"
	"riepilogo/internal/services"
	"riepilogo/internal/store/memory"

	"github.com/shopspring/decimal"
)

type countingPublisher struct{ n int }

func (p *countingPublisher) PublishExportRequest(context.Context, *amqp.ExportRequestMessage) error {
	p.n++
	return nil
}

type pingStore struct {
	*memory.Store
	err error
}

func (s pingStore) Ping(context.Context) error { return s.err }

func TestStoreAdapterRoutesWritesThroughService(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	pub := &countingPublisher{}
	a := NewStoreAdapter(st, services.NewExpenseService(st, pub, nil))

	e := core.Expense{Title: "Rent", Amount: decimal.NewFromInt(800), Category: "Rent", Date: core.NewDate(2025, 3, 1)}
	created, err := a.Create(ctx, e)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if pub.n != 1 {
		t.Fatalf("expected one export request, got %d", pub.n)
	}

	total, err := a.MonthTotal(ctx, core.NewPeriod(2025, 3))
	if err != nil {
		t.Fatalf("MonthTotal() error = %v", err)
	}
	if !total.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("reads should see the write, got %s", total)
	}

	if err := a.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if pub.n != 2 {
		t.Fatalf("expected two export requests, got %d", pub.n)
	}
}

func TestStoreAdapterPing(t *testing.T) {
	ctx := context.Background()

	plain := NewStoreAdapter(memory.New(), nil)
	if err := plain.Ping(ctx); err != nil {
		t.Fatalf("stores without Ping are always ready, got %v", err)
	}

	down := errors.New("db locked")
	st := pingStore{Store: memory.New(), err: down}
	if err := NewStoreAdapter(st, nil).Ping(ctx); !errors.Is(err, down) {
		t.Fatalf("expected ping error, got %v", err)
	}
}
