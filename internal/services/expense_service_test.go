package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"riepilogo/internal/amqp"
	"riepilogo/internal/core"
	"riepilogo/internal/store"
	"riepilogo/internal/store/memory"

	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	mu   sync.Mutex
	err  error
	msgs []*amqp.ExportRequestMessage
}

func (p *recordingPublisher) PublishExportRequest(_ context.Context, msg *amqp.ExportRequestMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func lunch() core.Expense {
	return core.Expense{Title: "Lunch", Amount: decimal.RequireFromString("12.50"), Category: "Food", Date: core.NewDate(2025, 3, 4)}
}

func TestExpenseServicePublishesAfterEachMutation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(memory.New(), pub, nil)

	created, err := svc.Create(ctx, lunch())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an id")
	}

	changed := lunch()
	changed.Amount = decimal.NewFromInt(20)
	if _, err := svc.Update(ctx, created.ID, changed); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if pub.count() != 3 {
		t.Fatalf("expected 3 export requests, got %d", pub.count())
	}
	for _, msg := range pub.msgs {
		if msg.SpreadsheetID != "" {
			t.Fatalf("export should target the default spreadsheet, got %q", msg.SpreadsheetID)
		}
	}
}

func TestExpenseServiceFailedWritesDoNotPublish(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(memory.New(), pub, nil)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"invalid expense", func() error { _, err := svc.Create(ctx, core.Expense{}); return err }, core.ErrEmptyTitle},
		{"update unknown", func() error { _, err := svc.Update(ctx, "99", lunch()); return err }, store.ErrNotFound},
		{"delete unknown", func() error { return svc.Delete(ctx, "99") }, store.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if pub.count() != 0 {
		t.Fatalf("failed writes must not publish, got %d", pub.count())
	}
}

func TestExpenseServiceToleratesPublishFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewExpenseService(st, &recordingPublisher{err: errors.New("broker down")}, nil)

	if _, err := svc.Create(ctx, lunch()); err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
	list, _ := st.ListExpenses(ctx)
	if len(list) != 1 {
		t.Fatalf("expense should be stored, got %d", len(list))
	}

	noPublisher := NewExpenseService(st, nil, nil)
	if _, err := noPublisher.Create(ctx, lunch()); err != nil {
		t.Fatalf("Create() without publisher error = %v", err)
	}
}
