package timestamp

import (
	"testing"
	"time"

	"stampcam/internal/settings"
)

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"plain", time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local), "2024-05-01 12:30:45"},
		{"single digit components", time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), "2024-01-02 03:04:05"},
		{"midnight", time.Date(2023, 12, 31, 0, 0, 0, 0, time.Local), "2023-12-31 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDateTime(tt.in); got != tt.want {
				t.Errorf("FormatDateTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDateTime_FixedWidth(t *testing.T) {
	want := len("2006-01-02 15:04:05")
	times := []time.Time{
		time.Date(2024, 1, 1, 1, 1, 1, 0, time.Local),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.Local),
		time.Date(2030, 6, 15, 9, 5, 0, 0, time.Local),
	}
	for _, ts := range times {
		if got := FormatDateTime(ts); len(got) != want {
			t.Errorf("FormatDateTime(%v) has width %d, want %d", ts, len(got), want)
		}
	}
}

func TestParseCustom(t *testing.T) {
	tests := []struct {
		in       string
		wantZero bool
	}{
		{"", true},
		{"not a date", true},
		{"2024-13-01T10:00", true},
		{"2024-05-01T12:30", false},
	}

	for _, tt := range tests {
		got := ParseCustom(tt.in)
		if got.IsZero() != tt.wantZero {
			t.Errorf("ParseCustom(%q).IsZero() = %v, want %v", tt.in, got.IsZero(), tt.wantZero)
		}
	}
}

func TestText_Disabled(t *testing.T) {
	s := settings.Settings{
		TimestampEnabled: false,
		TimestampMode:    settings.ModeCustom,
		CustomDateTime:   "2024-05-01T12:30",
	}
	if got := Text(s, time.Now()); got != "" {
		t.Errorf("Text() = %q for disabled stamp, want empty", got)
	}
}

func TestText_CurrentMode(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local)
	s := settings.Settings{TimestampEnabled: true, TimestampMode: settings.ModeCurrent}
	if got := Text(s, now); got != "2024-05-01 12:30:45" {
		t.Errorf("Text() = %q, want %q", got, "2024-05-01 12:30:45")
	}
}

func TestText_CustomMode(t *testing.T) {
	s := settings.Settings{
		TimestampEnabled: true,
		TimestampMode:    settings.ModeCustom,
		CustomDateTime:   "2023-11-20T08:15",
	}
	if got := Text(s, time.Now()); got != "2023-11-20 08:15:00" {
		t.Errorf("Text() = %q, want %q", got, "2023-11-20 08:15:00")
	}
}

func TestText_CustomModeInvalidValue(t *testing.T) {
	s := settings.Settings{
		TimestampEnabled: true,
		TimestampMode:    settings.ModeCustom,
		CustomDateTime:   "garbage",
	}
	if got := Text(s, time.Now()); got != "" {
		t.Errorf("Text() = %q for unparsable custom time, want empty", got)
	}
}
