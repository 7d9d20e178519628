// Package calendar provides calendar-month windows over db.Date.
package calendar

import (
	"time"

	"github.com/smallbiznis/propertydesk/pkg/db"
)

// MonthWindow is one calendar month, half-open on Next.
type MonthWindow struct {
	Start db.Date
	Next  db.Date
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) MonthWindow {
	start := db.NewDate(t.Year(), t.Month(), 1)
	return MonthWindow{
		Start: start,
		Next:  db.DateOf(start.AddDate(0, 1, 0)),
	}
}

// Shift moves the window by n calendar months.
func (w MonthWindow) Shift(n int) MonthWindow {
	start := db.DateOf(w.Start.AddDate(0, n, 0))
	return MonthWindow{
		Start: start,
		Next:  db.DateOf(start.AddDate(0, 1, 0)),
	}
}

func (w MonthWindow) Previous() MonthWindow { return w.Shift(-1) }

// End is the last calendar day of the month.
func (w MonthWindow) End() db.Date {
	return db.DateOf(w.Next.AddDate(0, 0, -1))
}

// Key is the YYYY-MM label of the month.
func (w MonthWindow) Key() string { return w.Start.MonthKey() }

// Label renders the month as "Jan 2024".
func (w MonthWindow) Label() string { return w.Start.Format("Jan 2006") }

// Trailing returns n windows ending with the month of now, most recent first.
func Trailing(now time.Time, n int) []MonthWindow {
	if n <= 0 {
		return nil
	}
	cur := MonthOf(now)
	out := make([]MonthWindow, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cur.Shift(-i))
	}
	return out
}

// MonthsBack returns the date n months before now, clamping the day to the
// end of the target month (Mar 31 minus one month is Feb 28 or 29).
func MonthsBack(now time.Time, n int) db.Date {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := now.Day()
	if day > lastDay {
		day = lastDay
	}
	return db.NewDate(first.Year(), first.Month(), day)
}
