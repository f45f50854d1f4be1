// Package settings holds the user-facing capture preferences and keeps them
// in sync with persistent storage.
package settings

// Timestamp modes selectable in the settings sheet.
const (
	ModeCurrent = "current"
	ModeCustom  = "custom"
)

// Settings is the flat record persisted as a single JSON blob.
// CustomDateTime is only meaningful when TimestampMode is ModeCustom.
type Settings struct {
	TimestampEnabled bool   `json:"timestampEnabled"`
	TimestampMode    string `json:"timestampMode"`
	CustomDateTime   string `json:"customDateTime"`
	LivePreview      bool   `json:"livePreview"`
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{
		TimestampEnabled: true,
		TimestampMode:    ModeCurrent,
		CustomDateTime:   "",
		LivePreview:      true,
	}
}

// Normalize coerces unknown modes back to ModeCurrent and drops a custom
// date-time that no longer applies.
func Normalize(s Settings) Settings {
	if s.TimestampMode != ModeCurrent && s.TimestampMode != ModeCustom {
		s.TimestampMode = ModeCurrent
	}
	if s.TimestampMode != ModeCustom {
		s.CustomDateTime = ""
	}
	return s
}
