// Package calendar holds the UTC date helpers used to pick and label trading days.
package calendar

import (
	"fmt"
	"time"
)

// ISODate is the layout used for every date label in the game.
const ISODate = "2006-01-02"

// Midnight truncates t to 00:00 UTC of its UTC calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on a Saturday or Sunday in UTC.
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// FormatISODate renders t as YYYY-MM-DD in UTC.
func FormatISODate(t time.Time) string {
	return t.UTC().Format(ISODate)
}

// ParseISODate parses a YYYY-MM-DD string as a UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODate, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// OffsetDate returns the UTC calendar day n days before base.
// AddDate on a UTC midnight never drifts across DST boundaries.
func OffsetDate(base time.Time, n int) time.Time {
	return Midnight(base).AddDate(0, 0, -n)
}
