package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDateParam parses a YYYY-MM-DD query value, or an RFC3339 timestamp
// truncated to its UTC calendar day. Empty input returns fallback.
func ParseDateParam(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", raw)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
