package util

import "time"

// ISODateLayout is the calendar-date layout used for report dates.
const ISODateLayout = "2006-01-02"

// ISODate formats t as a UTC calendar date.
func ISODate(t time.Time) string {
	return t.UTC().Format(ISODateLayout)
}

// ParseISODate parses a YYYY-MM-DD date as midnight UTC.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
