package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNext_Daily(t *testing.T) {
	rule := Rule{Frequency: FrequencyDaily, Interval: 1, AtHour: 9, AtMinute: 30}

	got, err := Next(rule, date(2025, time.March, 10, 8, 0), 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 10, 9, 30),
		date(2025, time.March, 11, 9, 30),
		date(2025, time.March, 12, 9, 30),
	}, got)
}

func TestNext_DailySkipsPastSameDay(t *testing.T) {
	rule := Rule{Frequency: FrequencyDaily, Interval: 2, AtHour: 9, AtMinute: 0}

	// 10:00 is past 09:00, so the first occurrence jumps an interval ahead.
	got, err := Next(rule, date(2025, time.March, 10, 10, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 12, 9, 0),
		date(2025, time.March, 14, 9, 0),
	}, got)
}

func TestNext_Weekly(t *testing.T) {
	rule := Rule{
		Frequency: FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday, time.Thursday},
		AtHour:    12,
	}

	// 2025-03-10 is a Monday.
	got, err := Next(rule, date(2025, time.March, 10, 13, 0), 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 13, 12, 0),
		date(2025, time.March, 17, 12, 0),
		date(2025, time.March, 20, 12, 0),
	}, got)
}

func TestNext_WeeklyInterval(t *testing.T) {
	rule := Rule{
		Frequency: FrequencyWeekly,
		Interval:  2,
		Weekdays:  []time.Weekday{time.Monday},
		AtHour:    8,
	}

	got, err := Next(rule, date(2025, time.March, 10, 7, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 10, 8, 0),
		date(2025, time.March, 24, 8, 0),
	}, got)
}

func TestNext_WeeklyIntervalAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	rule := Rule{
		Frequency: FrequencyWeekly,
		Interval:  2,
		Weekdays:  []time.Weekday{time.Monday},
		AtHour:    8,
	}

	// Clocks jump forward on 2025-03-09; the cadence must stay biweekly.
	from := time.Date(2025, time.March, 3, 7, 0, 0, 0, loc)
	got, err := Next(rule, from, 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2025, time.March, 3, 8, 0, 0, 0, loc),
		time.Date(2025, time.March, 17, 8, 0, 0, 0, loc),
		time.Date(2025, time.March, 31, 8, 0, 0, 0, loc),
	}, got)
}

func TestNext_MonthlyClampsShortMonths(t *testing.T) {
	rule := Rule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: 31, AtHour: 10}

	got, err := Next(rule, date(2025, time.January, 15, 0, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.January, 31, 10, 0),
		date(2025, time.February, 28, 10, 0),
		date(2025, time.March, 31, 10, 0),
		date(2025, time.April, 30, 10, 0),
	}, got)
}

func TestNext_MonthlyLeapFebruary(t *testing.T) {
	rule := Rule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: 30, AtHour: 10}

	got, err := Next(rule, date(2024, time.February, 1, 0, 0), 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2024, time.February, 29, 10, 0)}, got)
}

func TestNext_MonthlyYearRollover(t *testing.T) {
	rule := Rule{Frequency: FrequencyMonthly, Interval: 3, DayOfMonth: 1, AtHour: 0}

	got, err := Next(rule, date(2025, time.November, 2, 0, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2026, time.February, 1, 0, 0),
		date(2026, time.May, 1, 0, 0),
	}, got)
}

func TestNext_StrictlyIncreasing(t *testing.T) {
	rule := Rule{
		Frequency: FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday, time.Tuesday, time.Friday},
		AtHour:    9,
	}

	got, err := Next(rule, date(2025, time.June, 4, 9, 0), 10)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].After(got[i-1]))
	}
	for _, occ := range got {
		assert.True(t, occ.After(date(2025, time.June, 4, 9, 0)))
	}
}

func TestNext_InvalidRules(t *testing.T) {
	from := date(2025, time.March, 10, 0, 0)

	_, err := Next(Rule{Frequency: FrequencyDaily, Interval: 0}, from, 1)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = Next(Rule{Frequency: FrequencyWeekly, Interval: 1}, from, 1)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = Next(Rule{Frequency: FrequencyMonthly, Interval: 1, DayOfMonth: 0}, from, 1)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = Next(Rule{Frequency: "hourly", Interval: 1}, from, 1)
	assert.ErrorIs(t, err, ErrInvalidRule)
}
