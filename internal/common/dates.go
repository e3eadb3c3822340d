package common

import "time"

// DayFormat is the date layout used for cache keys, period markers and the
// NBP API path segments.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// FormatDay renders a time as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return FormatDay(time.Now())
}
