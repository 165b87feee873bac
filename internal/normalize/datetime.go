package normalize

import (
	"errors"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
}

// ParseTimestamp parses value against the accepted timestamp layouts.
// Layouts without a zone are interpreted in the local zone.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp format")
}

// FormatDateTime renders a timestamp value as fixed-width
// "YYYY-MM-DD HH:MM:SS" in the local zone. Unparseable input degrades to
// an empty string rather than failing the caller.
func FormatDateTime(value string) string {
	ts, err := ParseTimestamp(value)
	if err != nil {
		return ""
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

// FormatID truncates an identifier to its first 8 characters for
// display. Collisions are acceptable; this is not a uniqueness
// operation.
func FormatID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
