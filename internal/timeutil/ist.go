package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). All business dates
// (purchase dates, processing dates, aggregate keys) are IST calendar dates.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// DateLayout is the canonical YYYY-MM-DD form used for aggregate keys.
const DateLayout = "2006-01-02"

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// Today returns today's IST date in canonical form.
func Today() string {
	return Now().Format(DateLayout)
}

// DateKey formats a time as its IST calendar date.
func DateKey(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD date in IST.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, IST)
}

// StartOfDay returns 00:00:00 IST for the given time's date.
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// EndOfDay returns the last nanosecond of the given time's IST date.
func EndOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, IST)
}
