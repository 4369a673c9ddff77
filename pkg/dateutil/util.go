package dateutil

import (
	"fmt"
	"time"
)

// MonthRange returns the first instant of the month of t and of the month after it.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// LastDayOfMonth returns the midnight of the last day in the month of t.
func LastDayOfMonth(t time.Time) time.Time {
	_, end := MonthRange(t)
	return end.AddDate(0, 0, -1)
}

// MonthValue identifies the month of t, e.g. 10/2026.
func MonthValue(t time.Time) string {
	return fmt.Sprintf("%d/%d", t.Month(), t.Year())
}
