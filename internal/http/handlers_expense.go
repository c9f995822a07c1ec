package http

import (
	"net/http"
	"strings"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
)

// ExpenseList is the body of GET /api/expenses.
type ExpenseList struct {
	Expenses []core.Expense `json:"expenses"`
	Count    int            `json:"count"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	items, err := s.store.ListExpenses(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "List expenses failed",
			log.NewFields().WithOperation(log.OpList).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}

	// ?month=&year= narrows the list to one period.
	q := r.URL.Query()
	if q.Get("month") != "" || q.Get("year") != "" {
		p, err := ParsePeriodParams(q, s.now())
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			errorStatus(err).Write(w)
			return
		}
		filtered := items[:0:0]
		for _, e := range items {
			if p.Contains(e.Date) {
				filtered = append(filtered, e)
			}
		}
		items = filtered
	}
	// ?category= keeps exact matches only; an empty value selects uncategorized rows.
	if q.Has("category") {
		items = core.FilterByCategory(items, q.Get("category"))
	}
	if items == nil {
		items = []core.Expense{}
	}
	NewJSONResponse().Body(ExpenseList{Expenses: items, Count: len(items)}).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	e, resp := s.parseExpenseBody(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	created, err := s.store.Create(ctx, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Create expense failed",
			log.NewFields().WithOperation(log.OpCreate).WithExpense(e).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}
	s.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(created).ToSlice()...)
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	e, resp := s.parseExpenseBody(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	updated, err := s.store.Update(ctx, id, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Update expense failed",
			log.NewFields().WithOperation(log.OpUpdate).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Delete expense failed",
			log.NewFields().WithOperation(log.OpDelete).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parseExpenseBody(r *http.Request) (core.Expense, *JSONResponseBuilder) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		return core.Expense{}, BadRequestError(err.Error())
	}
	e, err := parser.ParseExpense()
	if err != nil {
		return core.Expense{}, errorStatus(err)
	}
	return e, nil
}
