package scoring

import "time"

const DateLayout = "2006-01-02"

// Period names a fixed aggregation window anchored at today.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodStart resolves a named period to its inclusive start date.
// ok is false for the all-time period, which has no lower bound.
func PeriodStart(p Period, today time.Time) (start time.Time, ok bool) {
	switch p {
	case PeriodWeekly:
		return WeekStart(today), true
	case PeriodMonthly:
		return MonthStart(today), true
	default:
		return time.Time{}, false
	}
}
