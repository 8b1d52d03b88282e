package ginserver

import (
	"fmt"
	"strings"
	"time"
)

// parseDate accepts YYYY-MM-DD or RFC3339 and returns midnight UTC of that calendar day.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required: %w", field, errInvalidDate)
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%s %q: %w", field, raw, errInvalidDate)
}
