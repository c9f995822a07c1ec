package services

import (
	"context"
	"fmt"

	"riepilogo/internal/amqp"
	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/store"
)

// Publisher queues workbook exports.
type Publisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error
}

// ExpenseService applies expense mutations to the store and then queues an
// export of the default spreadsheet so it follows the data.
type ExpenseService struct {
	writer    store.ExpenseWriter
	publisher Publisher
	logger    *log.Logger
}

func NewExpenseService(writer store.ExpenseWriter, publisher Publisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		writer:    writer,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// Create stores the expense, then requests an export.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.writer.Create(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.requestExport(ctx, log.OpCreate, created.ID)
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	updated, err := s.writer.Update(ctx, id, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.requestExport(ctx, log.OpUpdate, id)
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.writer.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.requestExport(ctx, log.OpDelete, id)
	return nil
}

// requestExport never fails the mutation; the store already holds the change.
func (s *ExpenseService) requestExport(ctx context.Context, op, id string) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher, skipping export request", log.FieldExpenseID, id)
		return
	}
	msg := amqp.NewExportRequestMessage("")
	if err := s.publisher.PublishExportRequest(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish export request",
			log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return
	}
	s.logger.DebugContext(ctx, "Export request published",
		log.FieldOperation, op, log.FieldExpenseID, id, log.FieldExportReq, msg.RequestID)
}
