package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"stampcam/internal/config"
	"stampcam/internal/export"
	"stampcam/internal/logger"
	"stampcam/internal/models"
	"stampcam/internal/repository"
	"stampcam/internal/storage"
)

// CapturesData is a paginated response payload for the capture history.
type CapturesData struct {
	Captures    []models.Capture `json:"captures"`
	Length      int              `json:"length"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Limit       int              `json:"pageSize"`
}

// ListCapturesHandler lists stored captures, newest first, with optional
// facing and date filters.
func ListCapturesHandler(repo repository.CaptureRepository, buffer *storage.BufferService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Anything still buffered should show up in the listing too.
		buffer.Flush()

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &models.CaptureFilter{
			Facing:     q.Get("facing"),
			DateAfter:  parseDate(q.Get("dateAfter")),
			DateBefore: parseDate(q.Get("dateBefore")),
		}

		total, err := repo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting captures: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		filter.Limit = limit
		filter.Offset = (page - 1) * limit

		captures, err := repo.GetAll(filter)
		if err != nil {
			logger.Error("Error listing captures: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if captures == nil {
			captures = []models.Capture{}
		}

		writeJSON(w, http.StatusOK, CapturesData{
			Captures:    captures,
			Length:      total,
			TotalPages:  (total + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}, logger)
	}
}

// loadCapture finds a capture's bytes, checking the in-memory buffer before
// disk. Returns nil when the name is unknown.
func loadCapture(filename string, repo repository.CaptureRepository, buffer *storage.BufferService, cfg *config.Config) []byte {
	// Reject anything that is not a plain photo filename.
	if filename != filepath.Base(filename) || strings.ContainsAny(filename, "/\\") {
		return nil
	}
	if _, err := export.ParseFilename(filename); err != nil {
		return nil
	}

	if data, ok := buffer.Get(filename); ok {
		return data
	}

	record, err := repo.GetByFilename(filename)
	if err != nil || record == nil {
		return nil
	}
	data, err := os.ReadFile(record.FilePath)
	if err != nil {
		return nil
	}
	return data
}

// DownloadCaptureHandler serves ?file= as an attachment under its
// photo_<epoch-millis>.jpg name.
func DownloadCaptureHandler(repo repository.CaptureRepository, buffer *storage.BufferService, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("file")
		data := loadCapture(filename, repo, buffer, cfg)
		if data == nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Write(data)
	}
}

// ShareCaptureHandler hands ?file= to the share surface. Failures other
// than a missing file never break the request; they are logged and reported
// as shared=false.
func ShareCaptureHandler(repo repository.CaptureRepository, buffer *storage.BufferService, share *export.ShareClient, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if !share.Supported() {
			writeJSON(w, http.StatusNotImplemented, map[string]interface{}{
				"shared": false,
				"error":  "Sharing is not available",
			}, logger)
			return
		}

		filename := r.URL.Query().Get("file")
		data := loadCapture(filename, repo, buffer, cfg)
		if data == nil {
			http.NotFound(w, r)
			return
		}

		shared, err := share.Share(r.Context(), filename, data)
		if err != nil {
			logger.Warning("Share of %s failed: %v", filename, err)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"shared": shared}, logger)
	}
}

// DeleteCaptureHandler removes one capture from disk and the database.
func DeleteCaptureHandler(repo repository.CaptureRepository, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		filename := r.URL.Query().Get("file")
		record, err := repo.GetByFilename(filename)
		if err != nil {
			logger.Error("Error looking up capture %s: %v", filename, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if record == nil {
			http.NotFound(w, r)
			return
		}

		if err := os.Remove(record.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warning("Error deleting capture file %s: %v", record.FilePath, err)
		}
		if err := repo.DeleteByFilename(filename); err != nil {
			logger.Error("Error deleting capture record %s: %v", filename, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCapturesHandler deletes the whole capture history.
func ClearCapturesHandler(repo repository.CaptureRepository, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		files, err := os.ReadDir(cfg.ImageDirectory)
		if err == nil {
			for _, file := range files {
				if file.IsDir() || filepath.Ext(file.Name()) != ".jpg" {
					continue
				}
				if err := os.Remove(filepath.Join(cfg.ImageDirectory, file.Name())); err != nil {
					logger.Warning("Error deleting %s: %v", file.Name(), err)
				}
			}
		}

		if err := repo.DeleteAll(); err != nil {
			logger.Error("Error clearing capture records: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
