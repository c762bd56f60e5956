package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage format of calendar dates.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate reads a calendar date written as 2006-01-02, RFC 3339, or
// 2006-01-02T15:04:05. The time of day is dropped.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns s in DateLayout. Empty input stays empty.
func NormalizeDate(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, ok := ParseDate(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// FormatDate formats the calendar day of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// OnOrBefore reports whether date falls on or before deadline. Missing or
// unparsable dates on either side yield false.
func OnOrBefore(date, deadline string) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	limit, ok := ParseDate(deadline)
	if !ok {
		return false
	}
	return !d.After(limit)
}
