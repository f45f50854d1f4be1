package handlers

import (
	"encoding/json"
	"net/http"

	"stampcam/internal/logger"
	"stampcam/internal/settings"
)

// SettingsHandler serves the active settings on GET and replaces them on
// PUT. Every successful PUT is persisted immediately.
func SettingsHandler(settingsSvc *settings.Service, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, settingsSvc.Current(), logger)

		case http.MethodPut, http.MethodPost:
			var next settings.Settings
			if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
				http.Error(w, "Invalid settings payload", http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, settingsSvc.Update(next), logger)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
