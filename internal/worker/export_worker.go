package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"riepilogo/internal/amqp"
	"riepilogo/internal/log"
	"riepilogo/internal/report"
	"riepilogo/internal/store"
)

// WorkbookWriter publishes a workbook somewhere and returns a reference to
// the written document.
type WorkbookWriter interface {
	WriteWorkbook(ctx context.Context, wb report.Workbook) (string, error)
}

// WriterResolver returns the writer for a spreadsheet id. An empty id means
// the configured default.
type WriterResolver func(spreadsheetID string) (WorkbookWriter, error)

// ErrNoWriter is returned when a request cannot be matched to a writer.
var ErrNoWriter = errors.New("no workbook writer available")

// ExportWorker turns export requests into spreadsheet writes.
type ExportWorker struct {
	lister    store.ExpenseLister
	assembler *report.Assembler
	resolve   WriterResolver
	logger    *log.Logger
}

func NewExportWorker(lister store.ExpenseLister, resolve WriterResolver, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		lister:    lister,
		assembler: report.NewAssembler(logger),
		resolve:   resolve,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// SingleWriter resolves every request to w, ignoring per-request ids.
func SingleWriter(w WorkbookWriter) WriterResolver {
	return func(string) (WorkbookWriter, error) {
		if w == nil {
			return nil, ErrNoWriter
		}
		return w, nil
	}
}

// CachedResolver builds one writer per spreadsheet id with newWriter and
// reuses it for later requests. An empty id resolves to defaultID.
func CachedResolver(defaultID string, newWriter func(spreadsheetID string) (WorkbookWriter, error)) WriterResolver {
	var (
		mu      sync.Mutex
		writers = map[string]WorkbookWriter{}
	)
	return func(spreadsheetID string) (WorkbookWriter, error) {
		if spreadsheetID == "" {
			spreadsheetID = defaultID
		}
		if spreadsheetID == "" {
			return nil, ErrNoWriter
		}
		mu.Lock()
		defer mu.Unlock()
		if w, ok := writers[spreadsheetID]; ok {
			return w, nil
		}
		w, err := newWriter(spreadsheetID)
		if err != nil {
			return nil, err
		}
		writers[spreadsheetID] = w
		return w, nil
	}
}

// HandleExportRequest processes a single export request from AMQP.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	if msg == nil {
		return errors.New("nil export request")
	}
	w.logger.InfoContext(ctx, "Processing export request",
		log.FieldExportReq, msg.RequestID,
		log.FieldSpreadsheet, msg.SpreadsheetID,
		"requested_at", msg.Timestamp)

	ref, rows, err := w.export(ctx, msg.SpreadsheetID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Export request failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		return fmt.Errorf("export request %s: %w", msg.RequestID, err)
	}

	w.logger.InfoContext(ctx, "Export request completed",
		log.FieldExportReq, msg.RequestID,
		log.FieldSpreadsheet, ref,
		log.FieldRows, rows)
	return nil
}

// ExportNow writes the workbook to the default spreadsheet.
func (w *ExportWorker) ExportNow(ctx context.Context) (string, error) {
	ref, _, err := w.export(ctx, "")
	return ref, err
}

func (w *ExportWorker) export(ctx context.Context, spreadsheetID string) (string, int, error) {
	if w.resolve == nil {
		return "", 0, ErrNoWriter
	}
	writer, err := w.resolve(spreadsheetID)
	if err != nil {
		return "", 0, fmt.Errorf("resolve writer: %w", err)
	}

	expenses, err := w.lister.ListExpenses(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list expenses: %w", err)
	}

	wb := w.assembler.Workbook(expenses)
	if err := wb.Verify(); err != nil {
		return "", 0, err
	}

	ref, err := writer.WriteWorkbook(ctx, wb)
	if err != nil {
		return "", 0, fmt.Errorf("write workbook: %w", err)
	}
	return ref, len(wb.Expenses), nil
}

// RunScheduled exports on every tick until ctx is done. A failed export is
// logged and retried on the next tick.
func (w *ExportWorker) RunScheduled(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid export interval %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Scheduled export started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Scheduled export stopped")
			return ctx.Err()
		case <-ticker.C:
			ref, err := w.ExportNow(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "Scheduled export failed",
					log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
				continue
			}
			w.logger.InfoContext(ctx, "Scheduled export completed", log.FieldSpreadsheet, ref)
		}
	}
}
