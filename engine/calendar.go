package engine

import (
	"time"
)

// dateLayout is the canonical day-key format. Keys are timezone-naive
// calendar dates and sort lexicographically in chronological order.
const dateLayout = "2006-01-02"

// DateKey formats a date as its canonical YYYY-MM-DD key.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDateKey parses a canonical YYYY-MM-DD key back into a date.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(dateLayout, key)
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayName returns the short English weekday name (Mon, Tue, ...).
func DayName(t time.Time) string {
	return t.Format("Mon")
}

// DateWindow produces the inclusive window of day keys around an anchor
// date, from daysBefore days before it to daysAfter days after it, in
// ascending order.
func DateWindow(anchor time.Time, daysBefore, daysAfter int) []string {
	window := make([]string, 0, daysBefore+daysAfter+1)
	for i := -daysBefore; i <= daysAfter; i++ {
		window = append(window, DateKey(anchor.AddDate(0, 0, i)))
	}
	return window
}

// WeekWindow is the dashboard's seven-day view: the last three days, the
// anchor day, and the next three days.
func WeekWindow(anchor time.Time) []string {
	return DateWindow(anchor, 3, 3)
}
