package domain

import (
	"strings"
	"time"
)

// Period is a coarse, calendar-aligned time bucket used to filter leads.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps raw input to a Period. Unknown values fall back to PeriodAll.
func ParsePeriod(raw string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case PeriodToday:
		return PeriodToday
	case PeriodMonth:
		return PeriodMonth
	case PeriodYear:
		return PeriodYear
	default:
		return PeriodAll
	}
}

// Range returns the half-open interval [from, to) covered by the period,
// computed in now's location. ok is false for PeriodAll, which is unbounded.
func (p Period) Range(now time.Time) (from, to time.Time, ok bool) {
	loc := now.Location()
	switch p {
	case PeriodToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		to = from.AddDate(0, 0, 1)
	case PeriodMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, 0)
	case PeriodYear:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		to = from.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
