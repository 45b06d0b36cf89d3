package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of operation dates.
const DateLayout = "2006-01-02"

// WindowDays is the fixed pagination granularity. It is not calendar aligned.
const WindowDays = 7

// NormalizeDate drops the time of day, keeping the calendar date of t in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a normalized date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return NormalizeDate(t).AddDate(0, 0, n)
}

// WeekOffsetRange returns the inclusive [start, end] range of the n-th 7-day window
// counted backwards from today (n = 0 ends today).
func WeekOffsetRange(today time.Time, n int) (time.Time, time.Time) {
	end := AddDays(today, -WindowDays*n)
	return AddDays(end, -(WindowDays - 1)), end
}
