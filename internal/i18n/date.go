package i18n

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder stands in for a missing value in detail panels.
const Placeholder = "—"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// acceptedLayouts covers the timestamp shapes the backend has been seen to
// emit.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDateTime renders a backend timestamp as a long French date with the
// time, e.g. "29 août 2026 à 14:30". A missing value becomes the
// placeholder; an unparseable one is shown raw rather than dropped.
func FormatDateTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Placeholder
	}
	t, ok := parseTime(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%d %s %d à %02d:%02d", t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatDate renders only the date part, e.g. "29 août 2026".
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Placeholder
	}
	t, ok := parseTime(value)
	if !ok {
		return value
	}
	return FormatDateValue(t)
}

// FormatDateValue renders a time as a long French date.
func FormatDateValue(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

func parseTime(value string) (time.Time, bool) {
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
