package querysql

import (
	"errors"
	"fmt"

	"github.com/roach88/pathql/internal/ops"
)

// TemplateError reports a dialect that cannot render an operator or node.
// It is a configuration error: the template table is incomplete.
type TemplateError struct {
	Dialect string
	Op      ops.ID // empty for non-operator nodes
	Message string
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("dialect %s: operator %s: %s", e.Dialect, e.Op, e.Message)
	}
	return fmt.Sprintf("dialect %s: %s", e.Dialect, e.Message)
}

// IsTemplateError reports whether err is a TemplateError.
func IsTemplateError(err error) bool {
	var te *TemplateError
	return errors.As(err, &te)
}

// LiteralError reports a constant the dialect has no literal syntax for.
type LiteralError struct {
	Dialect string
	Value   any
}

// Error implements the error interface.
func (e *LiteralError) Error() string {
	return fmt.Sprintf("dialect %s: no literal for %T", e.Dialect, e.Value)
}
