package database

import "time"

// DateLayout is the canonical YYYY-MM-DD form used for delivered_date keys,
// report directories, and the same-day news filter.
const DateLayout = "2006-01-02"

// Today returns the current date in the given location as YYYY-MM-DD.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format(DateLayout)
}

// DateString formats an instant as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}
