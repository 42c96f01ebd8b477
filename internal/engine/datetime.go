package engine

import (
	"time"

	"github.com/roach88/pathql/internal/ops"
)

// calendarFields maps each date-time operator to its field extractor.
// Fields are read in the value's own location. Month is 1-based,
// day-of-week counts Sunday as 1, week is the ISO 8601 week.
var calendarFields = map[ops.ID]func(time.Time) int32{
	ops.Year:        func(t time.Time) int32 { return int32(t.Year()) },
	ops.Month:       func(t time.Time) int32 { return int32(t.Month()) },
	ops.Week:        func(t time.Time) int32 { _, w := t.ISOWeek(); return int32(w) },
	ops.DayOfMonth:  func(t time.Time) int32 { return int32(t.Day()) },
	ops.DayOfWeek:   func(t time.Time) int32 { return int32(t.Weekday()) + 1 },
	ops.DayOfYear:   func(t time.Time) int32 { return int32(t.YearDay()) },
	ops.Hour:        func(t time.Time) int32 { return int32(t.Hour()) },
	ops.Minute:      func(t time.Time) int32 { return int32(t.Minute()) },
	ops.Second:      func(t time.Time) int32 { return int32(t.Second()) },
	ops.Millisecond: func(t time.Time) int32 { return int32(t.Nanosecond() / int(time.Millisecond)) },
	ops.YearMonth:   func(t time.Time) int32 { return int32(t.Year()*100 + int(t.Month())) },
	ops.YearWeek:    isoYearWeek,
}

func isoYearWeek(t time.Time) int32 {
	y, w := t.ISOWeek()
	return int32(y*100 + w)
}

// DateField extracts the calendar field of op from t.
func DateField(op ops.ID, t time.Time) (int32, error) {
	f, ok := calendarFields[op]
	if !ok {
		return 0, evalErr(op, t, ErrUnknownOperator)
	}
	return f(t), nil
}
