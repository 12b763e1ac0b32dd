package dates

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp is returned when a string matches none of the accepted layouts.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// DayLayout is the day-granularity layout used for cache keys and remote queries.
const DayLayout = "2006-01-02"

// isoLayouts covers the ISO-8601 shapes clients send: with or without zone,
// fractional seconds, minute precision, and plain dates.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var fallbackLayouts = []string{
	time.DateTime,
	DayLayout,
}

// Parse normalizes a date-time string into a time.Time.
// Timestamps without a zone are read as UTC.
func Parse(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Day formats t at day granularity in its own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}
