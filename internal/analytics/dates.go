package analytics

import (
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	isoDate,
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02 15:04:05",
}

// nowUTC is swapped out in tests.
var nowUTC = func() time.Time { return time.Now().UTC() }

// NormalizeDate parses a client supplied date string into a UTC instant.
//
// An empty string yields the current time. Unrecognised input also yields the
// current time, but with ok set to false so the caller can log the fallback.
func NormalizeDate(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nowUTC(), true
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}

	return nowUTC(), false
}

// FormatDate renders the calendar date of t in UTC as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoDate)
}

// ParseISODate parses a strict YYYY-MM-DD date.
func ParseISODate(raw string) (time.Time, error) {
	return time.Parse(isoDate, strings.TrimSpace(raw))
}
