package http

import (
	"context"
	"net/http"
	"net/url"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/report"
)

// SelectionAccepted is the body of a 202 answer to POST /api/selection.
type SelectionAccepted struct {
	Generation      uint64      `json:"generation"`
	Period          core.Period `json:"period"`
	IncludePrevious bool        `json:"include_previous"`
}

// SelectionView is the latest applied selection.
type SelectionView struct {
	Generation      uint64           `json:"generation"`
	Pending         bool             `json:"pending"`
	Period          core.Period      `json:"period"`
	IncludePrevious bool             `json:"include_previous"`
	View            report.ViewModel `json:"view"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriodParams(r.URL.Query(), s.now())
	if err != nil {
		errorStatus(err).Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sum, err := s.engine.Aggregate(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "Aggregate failed",
			log.NewFields().WithPeriod(p).WithOperation(log.OpAggregate).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}
	NewJSONResponse().Body(report.Stats(sum)).Write(w)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := ParsePeriodParams(q, s.now())
	if err != nil {
		errorStatus(err).Write(w)
		return
	}
	includePrevious := ParseBoolParam(q, "previous", true)

	ctx, cancel := s.requestContext(r)
	defer cancel()

	cmp, err := s.engine.Compare(ctx, p, includePrevious)
	vm := s.assembler.View(ctx, cmp, err)
	if err != nil && !vm.Loaded() {
		s.logger.ErrorContext(ctx, "Compare failed",
			log.NewFields().WithPeriod(p).WithOperation(log.OpCompare).WithError(err).ToSlice()...)
		errorStatus(err).Write(w)
		return
	}
	NewJSONResponse().Body(vm).Write(w)
}

func (s *Server) handleStartSelection(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	values := mergeValues(r.URL.Query(), parser.Values())

	p, err := ParsePeriodParams(values, s.now())
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		errorStatus(err).Write(w)
		return
	}
	includePrevious := ParseBoolParam(values, "previous", true)

	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	gen, done := s.engine.TrackAsync(ctx, s.tracker, p, includePrevious)
	go func() {
		defer cancel()
		res := <-done
		if res.Err != nil {
			s.logger.WarnContext(ctx, "Selection finished with error",
				log.NewFields().WithPeriod(p).WithGeneration(gen).WithError(res.Err).ToSlice()...)
		}
	}()

	s.logger.InfoContext(r.Context(), "Selection started",
		log.NewFields().WithPeriod(p).WithGeneration(gen).ToSlice()...)
	NewJSONResponse().
		Status(http.StatusAccepted).
		Body(SelectionAccepted{Generation: gen, Period: p, IncludePrevious: includePrevious}).
		Write(w)
}

func (s *Server) handleLatestSelection(w http.ResponseWriter, r *http.Request) {
	res, ok := s.tracker.Latest()
	if !ok {
		NotFoundError("no selection has completed yet").Write(w)
		return
	}
	NewJSONResponse().Body(SelectionView{
		Generation:      res.Generation,
		Pending:         s.tracker.Generation() != res.Generation,
		Period:          res.Period,
		IncludePrevious: res.IncludePrevious,
		View:            s.assembler.View(r.Context(), res.Comparison, res.Err),
	}).Write(w)
}

// mergeValues returns base overlaid with the non-empty values of over.
func mergeValues(base, over url.Values) url.Values {
	out := url.Values{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if len(v) > 0 && v[0] != "" {
			out[k] = v
		}
	}
	return out
}
