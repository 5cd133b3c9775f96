package utils

import (
	"strconv"
	"strings"
	"time"
)

const ISODateFormat = "2006-01-02"

// ParseFlexibleDate normalizes free-form date text into a calendar date.
// It accepts ISO dates (YYYY-MM-DD) directly, then falls back to three-part
// numeric dates separated by slashes or dashes, read day-first. When the
// middle group cannot be a month but the first one can (e.g. 03/25/2024),
// the groups are swapped and the date is read month-first instead; this is
// the only signal an ambiguous NN/NN/YYYY input carries.
// Returns false for anything else; it never panics and never guesses beyond
// the two swaps above.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(ISODateFormat, s); err == nil {
		return t, true
	}

	sep := ""
	switch {
	case strings.Contains(s, "/"):
		sep = "/"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return time.Time{}, false
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}

	// US-style month/day/year only when day-first cannot hold.
	if month > 12 && day <= 12 {
		day, month = month, day
	}

	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 becomes March); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}
