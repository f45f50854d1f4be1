package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"stampcam/internal/settings"
)

// settingsKey is the fixed key the settings blob lives under in the kv table.
const settingsKey = "settings"

// SettingsRepository stores the flat settings record as a JSON value in the
// kv table. Corrupt data is reported as not-found so callers fall back to
// defaults instead of failing.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// LoadSettings reads the persisted settings. The second return value is
// false when nothing usable is stored.
func (r *SettingsRepository) LoadSettings() (settings.Settings, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var raw string
	err := r.db.Conn().QueryRow("SELECT value FROM kv WHERE key = ?", settingsKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	var s settings.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Corrupt blob, treat as first run.
		return settings.Settings{}, false, nil
	}
	return s, true, nil
}

// SaveSettings serializes and upserts the settings record.
func (r *SettingsRepository) SaveSettings(s settings.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err = r.db.Conn().Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingsKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
