// Package dates provides calendar-day arithmetic for booking windows.
// Day counts are computed on date-only values so that time-of-day and
// timezone offsets between "today" and a stored trek date can never shift
// the result by a day.
package dates

import "time"

// Day truncates a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole calendar days from `from` until `to`.
// Negative when `to` is in the past, zero when both fall on the same date.
func DaysUntil(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// WithinWindow reports whether target is strictly in the future and at most
// windowDays calendar days away: 0 < daysUntil <= windowDays.
func WithinWindow(today, target time.Time, windowDays int) bool {
	d := DaysUntil(today, target)
	return d > 0 && d <= windowDays
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
