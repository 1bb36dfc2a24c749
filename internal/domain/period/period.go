// Package period splits a reporting date range into calendar month buckets.
// All dates are calendar days normalized to midnight UTC.
package period

import (
	"time"
)

// LabelLayout renders a month bucket label, e.g. "January 2024".
const LabelLayout = "January 2006"

// DateLayout is the ISO calendar date used in titles and file names.
const DateLayout = "2006-01-02"

// Date normalizes t to its calendar day at midnight UTC.
// The wall-clock date in t's own location is kept.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Month is one calendar month bucket of a report.
type Month struct {
	Year  int
	Month time.Month
	// Start is the first day of the month.
	Start time.Time
	// End is the last day of the month (inclusive).
	End   time.Time
	Label string
}

// Window returns the inclusive day range of the month.
func (m Month) Window() Window {
	return Window{Start: m.Start, End: m.End}
}

// OpeningDate is the day whose closing balance opens this month.
func (m Month) OpeningDate() time.Time {
	return m.Start.AddDate(0, 0, -1)
}

// Months returns the contiguous, ascending month buckets from the month of
// from through the month of to. The result is empty when from is after to.
func Months(from, to time.Time) []Month {
	current := firstOfMonth(Date(from))
	last := firstOfMonth(Date(to))

	var months []Month
	for !current.After(last) {
		next := current.AddDate(0, 1, 0)
		months = append(months, Month{
			Year:  current.Year(),
			Month: current.Month(),
			Start: current,
			End:   next.AddDate(0, 0, -1),
			Label: current.Format(LabelLayout),
		})
		current = next
	}
	return months
}

// Years returns the distinct years covered by months, ascending.
func Years(months []Month) []int {
	var years []int
	for _, m := range months {
		if len(years) == 0 || years[len(years)-1] != m.Year {
			years = append(years, m.Year)
		}
	}
	return years
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
