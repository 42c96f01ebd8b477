package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxRows bounds the rows a query's join stage may produce.
// This prevents runaway cross products from consuming unbounded memory.
const DefaultMaxRows = 1_000_000

// rowQuota counts intermediate rows and enforces a limit.
//
// Each Run gets its own quota. The count is checked every time the join
// stage emits a row.
type rowQuota struct {
	max     int
	current int
}

func newRowQuota(limit int) *rowQuota {
	return &rowQuota{max: limit}
}

// Check increments the row counter and validates against the limit.
// A nil quota or a limit of zero or less disables the check.
func (q *rowQuota) Check() error {
	if q == nil {
		return nil
	}
	q.current++
	if q.max > 0 && q.current > q.max {
		return &RowLimitError{Rows: q.current, Limit: q.max}
	}
	return nil
}

// RowLimitError is returned when the join stage exceeds the row quota.
// The whole run fails; no partial result is returned.
type RowLimitError struct {
	Rows  int
	Limit int
}

// Error implements the error interface.
func (e *RowLimitError) Error() string {
	return fmt.Sprintf("query exceeded row limit: %d rows > %d limit", e.Rows, e.Limit)
}

// IsRowLimitError reports whether err is a RowLimitError.
// Uses errors.As to handle wrapped errors.
func IsRowLimitError(err error) bool {
	var re *RowLimitError
	return errors.As(err, &re)
}
