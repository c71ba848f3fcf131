package util

import (
	"fmt"
	"strings"
	"time"
)

// Layouts without a zone. Fractional seconds are accepted after the
// seconds field even though the layouts do not spell them out.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var zonedDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// ParseDateTime parses an ISO-8601 date-time. Values with a zone ("Z" or
// an offset) are converted to UTC; values without one are taken as UTC.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date-time")
	}
	for _, layout := range zonedDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date-time %q", value)
}

// ParseDate parses "2006-01-02". A full date-time is accepted as well and
// truncated to its UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		return t, nil
	}
	t, err := ParseDateTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", value)
	}
	return StartOfDay(t), nil
}

// StartOfDay returns midnight UTC of t's UTC date.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
