package handlers

import (
	"bytes"
	"errors"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"stampcam/internal/camera"
	"stampcam/internal/capture"
	"stampcam/internal/export"
	"stampcam/internal/logger"
	"stampcam/internal/models"
	"stampcam/internal/preview"
	"stampcam/internal/settings"
	"stampcam/internal/storage"
	"stampcam/internal/timestamp"
)

// CaptureResponse describes one finished photo.
type CaptureResponse struct {
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Stamped  bool   `json:"stamped"`
}

// CaptureUploadHandler accepts a raw frame in the request body, runs it
// through the capture pipeline and queues the photo for persistence.
// Query params: portrait=true|false, facing=user|environment.
func CaptureUploadHandler(settingsSvc *settings.Service, buffer *storage.BufferService, broadcaster *preview.Broadcaster, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Error reading body", http.StatusBadRequest)
			return
		}

		frame, _, err := image.Decode(bytes.NewReader(body))
		if err != nil {
			// Nothing usable arrived yet; same silent no-op as a zero-size frame.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		facing := r.URL.Query().Get("facing")
		processAndStore(w, r, frame, facing, settingsSvc, buffer, broadcaster, logger)
	}
}

// DeviceCaptureHandler grabs the current frame from the active device
// session and runs the same pipeline.
func DeviceCaptureHandler(manager *camera.Manager, settingsSvc *settings.Service, buffer *storage.BufferService, broadcaster *preview.Broadcaster, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session := manager.Active()
		if session == nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "No active camera session"}, logger)
			return
		}

		frame, err := session.Frame()
		if err != nil {
			// Device still warming up; drop the capture quietly.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		processAndStore(w, r, frame, session.Facing, settingsSvc, buffer, broadcaster, logger)
	}
}

func processAndStore(w http.ResponseWriter, r *http.Request, frame image.Image, facing string, settingsSvc *settings.Service, buffer *storage.BufferService, broadcaster *preview.Broadcaster, logger *logger.Logger) {
	now := time.Now()
	portrait, _ := strconv.ParseBool(r.URL.Query().Get("portrait"))

	if facing != capture.FacingFront {
		facing = capture.FacingRear
	}

	opts := capture.Options{
		DevicePortrait: portrait,
		Facing:         facing,
		StampText:      timestamp.Text(settingsSvc.Current(), now),
	}

	result, err := capture.Process(frame, opts)
	if err != nil {
		if errors.Is(err, capture.ErrNotReady) || errors.Is(err, capture.ErrEncodeFailed) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.Error("Capture failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	record := models.Capture{
		Filename:  export.Filename(now),
		Facing:    facing,
		Stamped:   result.Stamped,
		Width:     result.Width,
		Height:    result.Height,
		Timestamp: now,
	}
	buffer.Add(result.Data, record)
	broadcaster.NotifyCapture(record)

	writeJSON(w, http.StatusCreated, CaptureResponse{
		Filename: record.Filename,
		Width:    record.Width,
		Height:   record.Height,
		Stamped:  record.Stamped,
	}, logger)
}
