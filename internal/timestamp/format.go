// Package timestamp turns the user's stamp settings into the text that gets
// burned into captured photos.
package timestamp

import (
	"time"

	"stampcam/internal/settings"
)

const (
	// stampLayout is fixed-width and sorts lexicographically.
	stampLayout = "2006-01-02 15:04:05"

	// customLayout matches the minute-precision value stored in settings.
	customLayout = "2006-01-02T15:04"
)

// FormatDateTime renders t as a fixed-width, zero-padded, sortable string.
// The zero time yields an empty string so callers can suppress the overlay.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(stampLayout)
}

// ParseCustom parses a minute-precision local date-time as entered in the
// settings sheet. Returns the zero time when the value is empty or malformed.
func ParseCustom(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(customLayout, value, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Text returns the stamp text for a capture happening at now. Empty when the
// stamp is disabled or the configured custom time does not parse. The result
// is computed per call so captures always carry the live time.
func Text(s settings.Settings, now time.Time) string {
	if !s.TimestampEnabled {
		return ""
	}
	if s.TimestampMode == settings.ModeCustom {
		return FormatDateTime(ParseCustom(s.CustomDateTime))
	}
	return FormatDateTime(now)
}
