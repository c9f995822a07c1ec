package core

import (
	"errors"
	"fmt"
)

// ErrInconsistentTotals is reported when a total disagrees with the rows it
// summarizes (PeriodSummary.Verify, workbook verification).
var ErrInconsistentTotals = errors.New("month total does not match category totals")

// ValidationError is returned for bad caller input, before any store access.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidPeriod) match month/year failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPeriod && (e.Field == "month" || e.Field == "year")
}

// FetchError is returned when the expense store is unreachable or answers
// with a non-success status.
type FetchError struct {
	Op     string
	Period Period
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Op, e.Period, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ComparisonPartialFailure reports that the current period loaded but the
// previous one did not. Current stays usable.
type ComparisonPartialFailure struct {
	Current  PeriodSummary
	Previous Period
	Err      error
}

func (e *ComparisonPartialFailure) Error() string {
	return fmt.Sprintf("comparison with %s failed (current %s loaded): %v", e.Previous, e.Current.Period, e.Err)
}

func (e *ComparisonPartialFailure) Unwrap() error {
	return e.Err
}

// IsPartialFailure reports whether err carries a loaded current period.
func IsPartialFailure(err error) (*ComparisonPartialFailure, bool) {
	var pf *ComparisonPartialFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
