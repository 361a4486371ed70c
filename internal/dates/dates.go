// Package dates normalizes the heterogeneous date tokens produced by
// the accounting gateway into canonical time values.
package dates

import (
	"strconv"
	"strings"
	"time"
)

const compactLayout = "20060102"

// genericLayouts are tried, in order, for tokens that are neither
// compact numeric nor day-month-year form.
var genericLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Normalize parses a date token in one of three admissible forms:
// 8-digit YYYYMMDD, DD-Mon-YY (two-digit year, 2000-based), or a
// generic date-like string. Unparseable or empty input falls back to
// now; the second return value is false in that case so callers can
// tell a defaulted date from a parsed one.
func Normalize(token string, now time.Time) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return now, false
	}

	if len(token) == 8 && allDigits(token) {
		if t, err := time.Parse(compactLayout, token); err == nil {
			return t, true
		}
		return now, false
	}

	if t, ok := parseDayMonthYear(token); ok {
		return t, true
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}

	return now, false
}

// parseDayMonthYear handles tokens like "1-Apr-24" or "15-Dec-23".
func parseDayMonthYear(token string) (time.Time, bool) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, false
	}

	if len(parts[2]) != 2 {
		return time.Time{}, false
	}
	yy, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(2000+yy, month, day, 0, 0, 0, 0, time.UTC), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
