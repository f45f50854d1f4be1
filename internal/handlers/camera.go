package handlers

import (
	"errors"
	"net/http"

	"stampcam/internal/camera"
	"stampcam/internal/logger"
)

// CameraStatus is the JSON shape for session state and acquisition errors.
// Retry names the affordance the UI should offer; empty means none.
type CameraStatus struct {
	State   string `json:"state"`
	Facing  string `json:"facing"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
	Retry   string `json:"retry,omitempty"`
}

// StartCameraHandler begins a session for the requested facing mode
// (?facing=user|environment, rear by default).
func StartCameraHandler(manager *camera.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session, err := manager.Start(r.URL.Query().Get("facing"))
		if err != nil {
			writeCameraError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, CameraStatus{
			State:   camera.StateActive,
			Facing:  session.Facing,
			Session: session.ID,
		}, logger)
	}
}

// FlipCameraHandler toggles between the front and rear camera.
func FlipCameraHandler(manager *camera.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session, err := manager.Flip()
		if err != nil {
			writeCameraError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, CameraStatus{
			State:   camera.StateActive,
			Facing:  session.Facing,
			Session: session.ID,
		}, logger)
	}
}

// StopCameraHandler tears the active session down.
func StopCameraHandler(manager *camera.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		manager.Stop()
		writeJSON(w, http.StatusOK, CameraStatus{State: camera.StateIdle}, logger)
	}
}

// CameraStatusHandler reports the current session state.
func CameraStatusHandler(manager *camera.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, facing, lastErr := manager.Status()

		status := CameraStatus{State: state, Facing: facing}
		if lastErr != nil {
			status.Error, status.Retry = describeCameraError(lastErr)
		}
		if session := manager.Active(); session != nil {
			status.Session = session.ID
		}
		writeJSON(w, http.StatusOK, status, logger)
	}
}

// describeCameraError maps the acquisition taxonomy to a user-facing
// message and retry affordance.
func describeCameraError(err error) (message, retry string) {
	switch {
	case errors.Is(err, camera.ErrPermissionDenied):
		return "Camera access denied", "Grant Camera Access"
	case errors.Is(err, camera.ErrNoDevice):
		return "No camera found on this device", "Try Again"
	case errors.Is(err, camera.ErrUnsupported):
		return "Camera capture is not supported here", ""
	default:
		return "Could not start the camera", "Try Again"
	}
}

func writeCameraError(w http.ResponseWriter, err error, logger *logger.Logger) {
	message, retry := describeCameraError(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, camera.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, camera.ErrNoDevice):
		status = http.StatusNotFound
	case errors.Is(err, camera.ErrUnsupported):
		status = http.StatusNotImplemented
	}

	writeJSON(w, status, CameraStatus{
		State: camera.StateError,
		Error: message,
		Retry: retry,
	}, logger)
}
