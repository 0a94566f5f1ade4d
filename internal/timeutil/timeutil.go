package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ClockLayout defines the canonical time-of-day format (HH:MM, 24h).
const ClockLayout = "15:04"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MergeDateTime combines a wire date and clock string into one point in time
// (UTC). The hub transmits the schedule split across two fields.
func MergeDateTime(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse(DateLayout+" "+ClockLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: bad schedule %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}

// SplitDateTime renders a point in time back into the hub's date and clock fields.
func SplitDateTime(t time.Time) (date, clock string) {
	t = t.UTC()
	return t.Format(DateLayout), t.Format(ClockLayout)
}
