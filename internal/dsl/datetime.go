package dsl

import (
	"time"

	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// DateTime is a time.Time expression.
type DateTime struct{ Comparable[time.Time] }

// DateTimeOf wraps a date-time expression.
func DateTimeOf(e queryir.Expr) DateTime { return DateTime{Comparable[time.Time]{e}} }

// Before is d < t.
func (d DateTime) Before(t time.Time) Bool { return d.Lt(t) }

// After is d > t.
func (d DateTime) After(t time.Time) Bool { return d.Gt(t) }

func (d DateTime) field(id ops.ID) Number[int32] { return NumberOf[int32](operation(id, d.e)) }

// Year extracts the calendar year.
func (d DateTime) Year() Number[int32] { return d.field(ops.Year) }

// Month extracts the month, 1-based.
func (d DateTime) Month() Number[int32] { return d.field(ops.Month) }

// Week extracts the ISO week of year.
func (d DateTime) Week() Number[int32] { return d.field(ops.Week) }

// DayOfMonth extracts the day of month.
func (d DateTime) DayOfMonth() Number[int32] { return d.field(ops.DayOfMonth) }

// DayOfWeek extracts the day of week, Sunday = 1.
func (d DateTime) DayOfWeek() Number[int32] { return d.field(ops.DayOfWeek) }

// DayOfYear extracts the day of year.
func (d DateTime) DayOfYear() Number[int32] { return d.field(ops.DayOfYear) }

// Hour extracts the hour of day.
func (d DateTime) Hour() Number[int32] { return d.field(ops.Hour) }

// Minute extracts the minute.
func (d DateTime) Minute() Number[int32] { return d.field(ops.Minute) }

// Second extracts the second.
func (d DateTime) Second() Number[int32] { return d.field(ops.Second) }

// Millisecond extracts the millisecond.
func (d DateTime) Millisecond() Number[int32] { return d.field(ops.Millisecond) }

// YearMonth is year*100 + month.
func (d DateTime) YearMonth() Number[int32] { return d.field(ops.YearMonth) }

// YearWeek is isoYear*100 + isoWeek.
func (d DateTime) YearWeek() Number[int32] { return d.field(ops.YearWeek) }

// Min is the earliest value.
func (d DateTime) Min() DateTime { return DateTimeOf(operation(ops.Min, d.e)) }

// Max is the latest value.
func (d DateTime) Max() DateTime { return DateTimeOf(operation(ops.Max, d.e)) }
