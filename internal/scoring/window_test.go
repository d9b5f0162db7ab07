package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	// 2024-03-13 is a Wednesday; the week starts on Monday the 11th.
	assert.Equal(t, date(2024, 3, 11), WeekStart(date(2024, 3, 13)))
	// Monday maps to itself.
	assert.Equal(t, date(2024, 3, 11), WeekStart(date(2024, 3, 11)))
	// Sunday belongs to the week that started six days earlier.
	assert.Equal(t, date(2024, 3, 11), WeekStart(date(2024, 3, 17)))
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, date(2024, 3, 1), MonthStart(date(2024, 3, 15)))
	assert.Equal(t, date(2024, 2, 1), MonthStart(date(2024, 2, 29)))
}

func TestPeriodStart(t *testing.T) {
	today := date(2024, 3, 15)

	start, ok := PeriodStart(PeriodWeekly, today)
	assert.True(t, ok)
	assert.Equal(t, date(2024, 3, 11), start)

	start, ok = PeriodStart(PeriodMonthly, today)
	assert.True(t, ok)
	assert.Equal(t, date(2024, 3, 1), start)

	_, ok = PeriodStart(PeriodAll, today)
	assert.False(t, ok)

	_, ok = PeriodStart(Period("bogus"), today)
	assert.False(t, ok)
}
