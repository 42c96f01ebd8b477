package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
)

// foldKind is the arithmetic a numeric fold uses.
type foldKind int

const (
	foldIntegral foldKind = iota
	foldFloating
	foldDecimal
)

func kindOf(v any) foldKind {
	switch {
	case ir.IsDecimalValue(v):
		return foldDecimal
	case ir.IsFloatingValue(v):
		return foldFloating
	}
	return foldIntegral
}

// Aggregate reduces values with an aggregate operator.
//
// CRITICAL: SUM, MIN and MAX fold pairwise, and the numeric kind of the
// FIRST element fixes the arithmetic for the whole fold. [1, 2.5] sums
// integrally to 3; [1.0, 2, 3] sums to 6.0. Nulls are skipped.
//
// AVG is SUM divided by the element count, always float64. COUNT is the
// sequence length (int64); COUNT_DISTINCT deduplicates by value equality.
// Folding no elements returns ErrEmptySequence. An operator without a fold
// returns ErrUnknownAggregator.
func Aggregate(op ops.ID, values []any) (any, error) {
	switch op {
	case ops.Count, ops.CountAll:
		return int64(len(values)), nil
	case ops.CountDistinct:
		seen := make(map[any]struct{}, len(values))
		for _, v := range values {
			seen[ir.Key(v)] = struct{}{}
		}
		return int64(len(seen)), nil
	case ops.Sum:
		return fold(op, values, sum2)
	case ops.Min:
		return fold(op, values, func(k foldKind, a, b any) (any, error) { return pick(k, a, b, -1) })
	case ops.Max:
		return fold(op, values, func(k foldKind, a, b any) (any, error) { return pick(k, a, b, 1) })
	case ops.Avg:
		nonNull := compact(values)
		total, err := fold(op, nonNull, sum2)
		if err != nil {
			return nil, err
		}
		f, _ := ir.AsFloat64(total)
		return f / float64(len(nonNull)), nil
	}
	return nil, evalErr(op, fmt.Sprintf("%d values", len(values)), ErrUnknownAggregator)
}

func compact(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func fold(op ops.ID, values []any, step func(foldKind, any, any) (any, error)) (any, error) {
	values = compact(values)
	if len(values) == 0 {
		return nil, evalErr(op, "[]", ErrEmptySequence)
	}
	k := kindOf(values[0])
	acc, err := native(k, values[0])
	if err != nil {
		return nil, evalErr(op, values[0], err)
	}
	for _, v := range values[1:] {
		if acc, err = step(k, acc, v); err != nil {
			return nil, evalErr(op, v, err)
		}
	}
	return acc, nil
}

// native converts v to the fold representation of kind k. Non-numeric
// values are kept as they are so MIN and MAX work on strings and times.
func native(k foldKind, v any) (any, error) {
	if !ir.IsNumber(v) {
		return v, nil
	}
	switch k {
	case foldDecimal:
		d, _ := ir.AsDecimal(v)
		return d, nil
	case foldFloating:
		f, _ := ir.AsFloat64(v)
		return f, nil
	default:
		i, _ := ir.AsInt64(v)
		return i, nil
	}
}

func sum2(k foldKind, acc, v any) (any, error) {
	if !ir.IsNumber(v) {
		return nil, fmt.Errorf("%w: %T is not numeric", ErrOperandType, v)
	}
	switch k {
	case foldDecimal:
		d, _ := ir.AsDecimal(v)
		return acc.(decimal.Decimal).Add(d), nil
	case foldFloating:
		f, _ := ir.AsFloat64(v)
		return acc.(float64) + f, nil
	default:
		i, _ := ir.AsInt64(v)
		return acc.(int64) + i, nil
	}
}

// pick keeps acc unless v orders before it (dir -1) or after it (dir 1).
func pick(k foldKind, acc, v any, dir int) (any, error) {
	nv, err := native(k, v)
	if err != nil {
		return nil, err
	}
	c, err := ir.Compare(nv, acc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperandType, err)
	}
	if c*dir > 0 {
		return nv, nil
	}
	return acc, nil
}
