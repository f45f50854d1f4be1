package routes

import (
	"net/http"

	"stampcam/internal/assets"
	"stampcam/internal/camera"
	"stampcam/internal/config"
	"stampcam/internal/export"
	"stampcam/internal/handlers"
	"stampcam/internal/logger"
	"stampcam/internal/middleware"
	"stampcam/internal/preview"
	"stampcam/internal/repository"
	"stampcam/internal/settings"
	"stampcam/internal/storage"
)

// Deps bundles the services the route table needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Settings    *settings.Service
	Captures    repository.CaptureRepository
	Buffer      *storage.BufferService
	Camera      *camera.Manager
	Hub         *preview.Hub
	Broadcaster *preview.Broadcaster
	Share       *export.ShareClient
	Assets      *assets.Cache
}

// SetupRoutes registers API endpoints, the preview websocket, log and auth
// endpoints, and cache-first asset serving, then wraps the mux with the
// authentication middleware.
func SetupRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Capture pipeline
	mux.HandleFunc("/api/capture", handlers.CaptureUploadHandler(d.Settings, d.Buffer, d.Broadcaster, d.Logger))
	mux.HandleFunc("/api/capture/device", handlers.DeviceCaptureHandler(d.Camera, d.Settings, d.Buffer, d.Broadcaster, d.Logger))

	// Capture history
	mux.HandleFunc("/api/captures", handlers.ListCapturesHandler(d.Captures, d.Buffer, d.Logger))
	mux.HandleFunc("/api/captures/download", handlers.DownloadCaptureHandler(d.Captures, d.Buffer, d.Config, d.Logger))
	mux.HandleFunc("/api/captures/share", handlers.ShareCaptureHandler(d.Captures, d.Buffer, d.Share, d.Config, d.Logger))
	mux.HandleFunc("/api/captures/delete", handlers.DeleteCaptureHandler(d.Captures, d.Config, d.Logger))
	mux.HandleFunc("/api/captures/clear", handlers.ClearCapturesHandler(d.Captures, d.Config, d.Logger))

	// Camera session
	mux.HandleFunc("/api/camera/start", handlers.StartCameraHandler(d.Camera, d.Logger))
	mux.HandleFunc("/api/camera/flip", handlers.FlipCameraHandler(d.Camera, d.Logger))
	mux.HandleFunc("/api/camera/stop", handlers.StopCameraHandler(d.Camera, d.Logger))
	mux.HandleFunc("/api/camera/status", handlers.CameraStatusHandler(d.Camera, d.Logger))

	// Settings
	mux.HandleFunc("/api/settings", handlers.SettingsHandler(d.Settings, d.Logger))

	// Live preview
	mux.HandleFunc("/api/preview", handlers.PreviewWebsocketHandler(d.Hub, d.Logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(d.Config))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(d.Config))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(d.Config))
	mux.HandleFunc("/logs/info/clear", handlers.ClearInfoLogsHandler(d.Logger))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearWarningLogsHandler(d.Logger))
	mux.HandleFunc("/logs/error/clear", handlers.ClearErrorLogsHandler(d.Logger))

	// Auth endpoints
	mux.HandleFunc("/auth/login", handlers.LoginHandler(d.Config, d.Logger))
	mux.HandleFunc("/auth/logout", handlers.LogoutHandler)

	// Static assets, cache-first with disk fallback
	mux.Handle("/static/", http.StripPrefix("/static/", d.Assets))
	mux.Handle("/", d.Assets)

	return middleware.AuthMiddleware(mux)
}
