package util

import "time"

// DayFormat is the canonical date layout used across CSV files and reports.
const DayFormat = "2006-01-02"

// Day truncates t to midnight UTC. All series dates are stored this way.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// IsBusinessDay reports whether t falls on Monday through Friday.
// Exchange holidays are not modeled.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// LastBusinessDay returns the closest business day on or before t.
func LastBusinessDay(t time.Time) time.Time {
	d := Day(t)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// BusinessDaysEnding returns the n business days ending at the last business
// day on or before end, in ascending order.
func BusinessDaysEnding(end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, n)
	d := LastBusinessDay(end)
	for i := n - 1; i >= 0; i-- {
		days[i] = d
		d = d.AddDate(0, 0, -1)
		for !IsBusinessDay(d) {
			d = d.AddDate(0, 0, -1)
		}
	}
	return days
}
