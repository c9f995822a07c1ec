package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"riepilogo/internal/amqp"
	"riepilogo/internal/export/xlsx"
	"riepilogo/internal/log"
	"riepilogo/internal/report"
)

// ExportQueued is the body of a 202 answer to POST /api/export/sheets.
type ExportQueued struct {
	RequestID     string `json:"request_id"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	items, err := s.store.ListExpenses(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Export listing failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}

	wb := s.assembler.Workbook(items)
	if err := wb.Verify(); err != nil {
		errorStatus(err).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf, wb); err != nil {
		s.logger.ErrorContext(ctx, "Workbook rendering failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		InternalServerError("could not render workbook").Write(w)
		return
	}

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	s.logger.InfoContext(ctx, "Workbook exported", log.FieldRows, len(wb.Expenses))
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		ServiceUnavailableError("sheet export is not configured").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	spreadsheetID := parser.Get("spreadsheet_id")
	if spreadsheetID == "" {
		spreadsheetID = sanitizeInput(r.URL.Query().Get("spreadsheet_id"))
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	msg := amqp.NewExportRequestMessage(spreadsheetID)
	if err := s.publisher.PublishExportRequest(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Publishing export request failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		ServiceUnavailableError("could not queue export request").Write(w)
		return
	}

	s.logger.InfoContext(ctx, "Export request queued",
		log.FieldExportReq, msg.RequestID,
		log.FieldSpreadsheet, spreadsheetID)
	NewJSONResponse().
		Status(http.StatusAccepted).
		Body(ExportQueued{RequestID: msg.RequestID, SpreadsheetID: spreadsheetID}).
		Write(w)
}
