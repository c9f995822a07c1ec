package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"riepilogo/internal/core"
	"riepilogo/internal/store"
	"riepilogo/internal/store/remote"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// errorStatus maps an error to its response.
//
//	*core.ValidationError       -> 400
//	expense field sentinels     -> 422
//	store.ErrNotFound           -> 404
//	fetch and upstream failures -> 502
//	deadline exceeded           -> 504
func errorStatus(err error) *JSONResponseBuilder {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return NewJSONResponse().Status(http.StatusBadRequest).Body(ErrorBody{Error: ve.Error(), Field: ve.Field})
	}
	for _, target := range []error{core.ErrInvalidAmount, core.ErrEmptyTitle, core.ErrEmptyCategory, core.ErrInvalidDate, core.ErrTitleTooLong} {
		if errors.Is(err, target) {
			return UnprocessableEntityError(err.Error())
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError(err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorResponse(http.StatusGatewayTimeout, err.Error())
	}
	var fe *core.FetchError
	var se *remote.StatusError
	if errors.As(err, &fe) || errors.As(err, &se) || errors.Is(err, core.ErrInconsistentTotals) {
		return BadGatewayError(err.Error())
	}
	return InternalServerError(err.Error())
}
