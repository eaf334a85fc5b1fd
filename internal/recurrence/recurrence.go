package recurrence

import (
	"time"

	"github.com/pkg/errors"
)

// Rule is the calendar part of a recurring template.
type Rule struct {
	Frequency  string // daily, weekly, monthly
	Interval   int    // every N days/weeks/months
	Weekdays   []time.Weekday
	DayOfMonth int // 1..31, clamped to the month end
	AtHour     int
	AtMinute   int
}

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

var ErrInvalidRule = errors.New("invalid recurrence rule")

// Next generates the next count occurrence times strictly after from.
// Occurrences are strictly increasing.
func Next(rule Rule, from time.Time, count int) ([]time.Time, error) {
	if rule.Interval < 1 || count < 1 {
		return nil, ErrInvalidRule
	}

	switch rule.Frequency {
	case FrequencyDaily:
		return nextDaily(rule, from, count), nil
	case FrequencyWeekly:
		if len(rule.Weekdays) == 0 {
			return nil, ErrInvalidRule
		}
		return nextWeekly(rule, from, count), nil
	case FrequencyMonthly:
		if rule.DayOfMonth < 1 || rule.DayOfMonth > 31 {
			return nil, ErrInvalidRule
		}
		return nextMonthly(rule, from, count), nil
	}

	return nil, ErrInvalidRule
}

func nextDaily(rule Rule, from time.Time, count int) []time.Time {
	out := make([]time.Time, 0, count)

	day := atTime(from, rule)
	if !day.After(from) {
		day = day.AddDate(0, 0, rule.Interval)
	}

	for len(out) < count {
		out = append(out, day)
		day = day.AddDate(0, 0, rule.Interval)
	}
	return out
}

func nextWeekly(rule Rule, from time.Time, count int) []time.Time {
	wanted := make(map[time.Weekday]bool, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		wanted[wd] = true
	}

	out := make([]time.Time, 0, count)

	// Walk day by day; skip whole weeks according to the interval relative
	// to the week containing `from`.
	startWeek := weekStart(from)
	day := atTime(from, rule)
	if !day.After(from) {
		day = day.AddDate(0, 0, 1)
	}

	for len(out) < count {
		weeks := daysBetween(startWeek, weekStart(day)) / 7
		if weeks%rule.Interval == 0 && wanted[day.Weekday()] {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func nextMonthly(rule Rule, from time.Time, count int) []time.Time {
	out := make([]time.Time, 0, count)

	year, month := from.Year(), from.Month()
	for len(out) < count {
		occ := monthOccurrence(year, month, rule, from.Location())
		if occ.After(from) {
			out = append(out, occ)
		}
		month += time.Month(rule.Interval)
		for month > 12 {
			month -= 12
			year++
		}
	}
	return out
}

// monthOccurrence clamps day 29..31 to the last day of short months.
func monthOccurrence(year int, month time.Month, rule Rule, loc *time.Location) time.Time {
	day := rule.DayOfMonth
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, rule.AtHour, rule.AtMinute, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atTime(t time.Time, rule Rule) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), rule.AtHour, rule.AtMinute, 0, 0, t.Location())
}

func weekStart(t time.Time) time.Time {
	// Monday-based weeks.
	wd := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -wd)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days between two dates. Both ends are
// normalized to UTC midnight so a DST-shortened week still spans seven days.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
