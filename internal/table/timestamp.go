package table

import (
	"fmt"
	"strings"
	"time"
)

// Accepted timestamp layouts, in parse priority order. The fleet's exported
// tables use day-first formats; ISO appears on rows appended from EXIF data.
const (
	LayoutDayFirst      = "02/01/2006 15:04:05"
	LayoutDayFirstShort = "02/01/2006 15:04"
	LayoutISO           = "2006-01-02 15:04:05"

	// LayoutEXIF is the DateTimeOriginal format carried by the
	// date_time_orig column of raw classifier output.
	LayoutEXIF = "2006:01:02 15:04:05"
)

var timestampLayouts = []string{LayoutDayFirst, LayoutDayFirstShort, LayoutISO}

// ParseTimestamp parses a table timestamp, trying the day-first layouts
// before ISO. An empty or unmatched value returns an error; callers treat
// such rows as excluded from time-based logic rather than dropping them.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "NA" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches no accepted layout", value)
}

// ParseEXIFTimestamp parses a DateTimeOriginal value from raw classifier
// output.
func ParseEXIFTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date_time_orig")
	}
	ts, err := time.Parse(LayoutEXIF, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date_time_orig %q: %w", value, err)
	}
	return ts, nil
}

// FormatTimestamp renders a timestamp in the canonical day-first output
// format. Zero timestamps render as "NA".
func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "NA"
	}
	return ts.Format(LayoutDayFirst)
}
