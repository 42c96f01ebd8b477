package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/pathql/internal/ops"
)

// Sentinel causes wrapped by EvalError.
var (
	// ErrNoSuchField: a dynamic dereference named a member the value lacks.
	ErrNoSuchField = errors.New("no such field")

	// ErrEmptySequence: SUM, MIN, MAX or AVG folded a sequence with no elements.
	ErrEmptySequence = errors.New("empty sequence")

	// ErrUnknownAggregator: an operator id with no fold reached Aggregate.
	// This is a catalogue bug, not a data error.
	ErrUnknownAggregator = errors.New("unknown aggregator")

	// ErrUnboundVariable: a path's root variable is not bound.
	ErrUnboundVariable = errors.New("unbound variable")

	// ErrDivisionByZero: integral or decimal division by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOperandType: an operand has the wrong runtime type.
	ErrOperandType = errors.New("operand type mismatch")

	// ErrUnknownOperator: the evaluator has no implementation for an operator.
	ErrUnknownOperator = errors.New("unknown operator")
)

// EvalError identifies the operator and operand an evaluation failed on.
//
// EvalError wraps one of the sentinel errors above (or a lower-level error),
// so both errors.Is(err, ErrNoSuchField) and errors.As(err, &evalErr) work.
type EvalError struct {
	// Op is the failing operator, empty for path or node failures.
	Op ops.ID

	// Operand renders the offending operand or member.
	Operand string

	// Err is the cause.
	Err error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("eval %s(%s): %v", e.Op, e.Operand, e.Err)
	}
	return fmt.Sprintf("eval %s: %v", e.Operand, e.Err)
}

// Unwrap returns the cause.
func (e *EvalError) Unwrap() error { return e.Err }

func evalErr(op ops.ID, operand any, err error) *EvalError {
	return &EvalError{Op: op, Operand: fmt.Sprint(operand), Err: err}
}

// IsNoSuchField reports whether err is a failed dynamic dereference.
// Uses errors.Is to handle wrapped errors.
func IsNoSuchField(err error) bool { return errors.Is(err, ErrNoSuchField) }

// IsEmptySequence reports whether err is an empty fold.
func IsEmptySequence(err error) bool { return errors.Is(err, ErrEmptySequence) }

// IsUnknownAggregator reports whether err is a catalogue bug.
func IsUnknownAggregator(err error) bool { return errors.Is(err, ErrUnknownAggregator) }
