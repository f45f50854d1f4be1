package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stampcam/internal/camera"
	"stampcam/internal/capture"
	"stampcam/internal/config"
	"stampcam/internal/export"
	"stampcam/internal/logger"
	"stampcam/internal/preview"
	"stampcam/internal/repository/sqlite"
	"stampcam/internal/settings"
	"stampcam/internal/storage"
)

// ========================================
// Test Setup Helpers
// ========================================

type memorySettingsStore struct {
	stored settings.Settings
	found  bool
}

func (m *memorySettingsStore) LoadSettings() (settings.Settings, bool, error) {
	return m.stored, m.found, nil
}

func (m *memorySettingsStore) SaveSettings(s settings.Settings) error {
	m.stored = s
	m.found = true
	return nil
}

type testEnv struct {
	cfg         *config.Config
	logger      *logger.Logger
	settings    *settings.Service
	repo        *sqlite.CaptureRepository
	buffer      *storage.BufferService
	broadcaster *preview.Broadcaster
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(t.TempDir())

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ImageDirectory: t.TempDir(),
		RearDeviceID:   0,
		FrontDeviceID:  1,
		CaptureWidth:   1920,
		CaptureHeight:  1080,
	}

	repo := sqlite.NewCaptureRepository(db)
	settingsSvc := settings.NewService(&memorySettingsStore{}, log)
	buffer := storage.NewBufferService(cfg.ImageDirectory, 8, repo, log)
	hub := preview.NewHub(log)

	return &testEnv{
		cfg:         cfg,
		logger:      log,
		settings:    settingsSvc,
		repo:        repo,
		buffer:      buffer,
		broadcaster: preview.NewBroadcaster(hub, settingsSvc),
	}
}

func encodeTestFrame(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{40, 40, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test frame: %v", err)
	}
	return buf.Bytes()
}

// ========================================
// Capture Handler Tests
// ========================================

func TestCaptureUpload_PortraitSwapsDimensions(t *testing.T) {
	env := setupEnv(t)
	handler := CaptureUploadHandler(env.settings, env.buffer, env.broadcaster, env.logger)

	frame := encodeTestFrame(t, 64, 32)
	req := httptest.NewRequest(http.MethodPost, "/api/capture?portrait=true&facing=environment", bytes.NewReader(frame))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", rec.Code)
	}

	var resp CaptureResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Width != 32 || resp.Height != 64 {
		t.Errorf("Exported dimensions = %dx%d, want 32x64", resp.Width, resp.Height)
	}
	if !strings.HasPrefix(resp.Filename, "photo_") || !strings.HasSuffix(resp.Filename, ".jpg") {
		t.Errorf("Filename = %q, want photo_<epoch-millis>.jpg", resp.Filename)
	}
	if !resp.Stamped {
		t.Error("Default settings enable the stamp; Stamped should be true")
	}
}

func TestCaptureUpload_DisabledStamp(t *testing.T) {
	env := setupEnv(t)
	env.settings.Update(settings.Settings{TimestampEnabled: false, TimestampMode: settings.ModeCurrent})
	handler := CaptureUploadHandler(env.settings, env.buffer, env.broadcaster, env.logger)

	req := httptest.NewRequest(http.MethodPost, "/api/capture", bytes.NewReader(encodeTestFrame(t, 64, 32)))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", rec.Code)
	}
	var resp CaptureResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Stamped {
		t.Error("Stamped = true with the timestamp disabled")
	}
}

func TestCaptureUpload_UndecodableBodyIsSilentNoOp(t *testing.T) {
	env := setupEnv(t)
	handler := CaptureUploadHandler(env.settings, env.buffer, env.broadcaster, env.logger)

	req := httptest.NewRequest(http.MethodPost, "/api/capture", strings.NewReader("not an image"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want 204 silent no-op", rec.Code)
	}
}

func TestDeviceCapture_NoSession(t *testing.T) {
	env := setupEnv(t)
	manager := camera.NewManager(nil, env.cfg, env.logger)
	handler := DeviceCaptureHandler(manager, env.settings, env.buffer, env.broadcaster, env.logger)

	req := httptest.NewRequest(http.MethodPost, "/api/capture/device", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Status = %d, want 409", rec.Code)
	}
}

// ========================================
// Camera Handler Tests
// ========================================

type fakeDevice struct{}

func (fakeDevice) ReadFrame() (image.Image, error) { return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil }
func (fakeDevice) Close() error                    { return nil }

func TestStartCamera_PermissionDeniedScenario(t *testing.T) {
	env := setupEnv(t)

	attempts := 0
	manager := camera.NewManager(func(deviceID, width, height int) (camera.Device, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("permission denied")
		}
		return fakeDevice{}, nil
	}, env.cfg, env.logger)

	handler := StartCameraHandler(manager, env.logger)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/camera/start", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("Status = %d, want 403", rec.Code)
	}
	var status CameraStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status.Error != "Camera access denied" {
		t.Errorf("Error = %q, want %q", status.Error, "Camera access denied")
	}
	if status.Retry != "Grant Camera Access" {
		t.Errorf("Retry = %q, want %q", status.Retry, "Grant Camera Access")
	}

	// Tapping the retry affordance re-invokes acquisition.
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/camera/start", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Retry status = %d, want 200", rec.Code)
	}
	if attempts != 2 {
		t.Errorf("Acquisition attempts = %d, want 2", attempts)
	}
}

func TestStartCamera_Unsupported(t *testing.T) {
	env := setupEnv(t)
	manager := camera.NewManager(nil, env.cfg, env.logger)
	handler := StartCameraHandler(manager, env.logger)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/camera/start", nil))

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("Status = %d, want 501", rec.Code)
	}
	var status CameraStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status.Retry != "" {
		t.Errorf("Retry = %q, want no retry affordance for unsupported", status.Retry)
	}
}

func TestFlipCamera_TogglesFacing(t *testing.T) {
	env := setupEnv(t)
	manager := camera.NewManager(func(deviceID, width, height int) (camera.Device, error) {
		return fakeDevice{}, nil
	}, env.cfg, env.logger)

	start := StartCameraHandler(manager, env.logger)
	flip := FlipCameraHandler(manager, env.logger)

	rec := httptest.NewRecorder()
	start(rec, httptest.NewRequest(http.MethodPost, "/api/camera/start?facing=environment", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Start status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	flip(rec, httptest.NewRequest(http.MethodPost, "/api/camera/flip", nil))

	var status CameraStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status.Facing != capture.FacingFront {
		t.Errorf("Facing after flip = %q, want %q", status.Facing, capture.FacingFront)
	}
}

// ========================================
// Settings Handler Tests
// ========================================

func TestSettingsHandler_RoundTrip(t *testing.T) {
	env := setupEnv(t)
	handler := SettingsHandler(env.settings, env.logger)

	payload := `{"timestampEnabled":true,"timestampMode":"custom","customDateTime":"2024-05-01T12:30","livePreview":false}`
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	var got settings.Settings
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	want := settings.Settings{
		TimestampEnabled: true,
		TimestampMode:    settings.ModeCustom,
		CustomDateTime:   "2024-05-01T12:30",
		LivePreview:      false,
	}
	if got != want {
		t.Errorf("Settings round trip = %+v, want %+v", got, want)
	}
}

func TestSettingsHandler_BadPayload(t *testing.T) {
	env := setupEnv(t)
	handler := SettingsHandler(env.settings, env.logger)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader("{broken")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

// ========================================
// Capture History Handler Tests
// ========================================

func captureViaUpload(t *testing.T, env *testEnv) string {
	t.Helper()

	handler := CaptureUploadHandler(env.settings, env.buffer, env.broadcaster, env.logger)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/capture", bytes.NewReader(encodeTestFrame(t, 64, 32))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Capture status = %d", rec.Code)
	}
	var resp CaptureResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode capture response: %v", err)
	}
	return resp.Filename
}

func TestListCaptures(t *testing.T) {
	env := setupEnv(t)
	filename := captureViaUpload(t, env)

	handler := ListCapturesHandler(env.repo, env.buffer, env.logger)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/captures", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var data CapturesData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data.Length != 1 || len(data.Captures) != 1 {
		t.Fatalf("Listing = %d/%d captures, want 1", data.Length, len(data.Captures))
	}
	if data.Captures[0].Filename != filename {
		t.Errorf("Listed filename = %q, want %q", data.Captures[0].Filename, filename)
	}
}

func TestDownloadCapture(t *testing.T) {
	env := setupEnv(t)
	filename := captureViaUpload(t, env)

	handler := DownloadCaptureHandler(env.repo, env.buffer, env.cfg, env.logger)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/captures/download?file="+filename, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if ctype := rec.Header().Get("Content-Type"); ctype != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ctype)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, filename) {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	if _, err := jpeg.DecodeConfig(rec.Body); err != nil {
		t.Errorf("Download body is not a JPEG: %v", err)
	}
}

func TestDownloadCapture_UnknownFile(t *testing.T) {
	env := setupEnv(t)

	handler := DownloadCaptureHandler(env.repo, env.buffer, env.cfg, env.logger)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/captures/download?file=photo_0.jpg", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", rec.Code)
	}
}

func TestDownloadCapture_RejectsTraversal(t *testing.T) {
	env := setupEnv(t)

	handler := DownloadCaptureHandler(env.repo, env.buffer, env.cfg, env.logger)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/captures/download?file=..%2F..%2Fetc%2Fpasswd", nil)
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 for traversal attempt", rec.Code)
	}
}

func TestShareCapture_Unsupported(t *testing.T) {
	env := setupEnv(t)
	filename := captureViaUpload(t, env)

	share := export.NewShareClient("", "Timestamp Photo", env.logger)
	handler := ShareCaptureHandler(env.repo, env.buffer, share, env.cfg, env.logger)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/captures/share?file="+filename, nil))

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("Status = %d, want 501", rec.Code)
	}
}

func TestShareCapture_Success(t *testing.T) {
	env := setupEnv(t)
	filename := captureViaUpload(t, env)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	share := export.NewShareClient(server.URL, "Timestamp Photo", env.logger)
	handler := ShareCaptureHandler(env.repo, env.buffer, share, env.cfg, env.logger)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/captures/share?file="+filename, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp["shared"] {
		t.Error("shared = false, want true")
	}
}

func TestDeleteCapture(t *testing.T) {
	env := setupEnv(t)
	filename := captureViaUpload(t, env)
	env.buffer.Flush()

	handler := DeleteCaptureHandler(env.repo, env.cfg, env.logger)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/captures/delete?file="+filename, nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Status = %d, want 204", rec.Code)
	}
	record, err := env.repo.GetByFilename(filename)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if record != nil {
		t.Error("Capture record still present after delete")
	}
}

// ========================================
// Helper Tests
// ========================================

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"10", 5, 10},
		{"1", 0, 1},
		{"", 5, 5},
		{"abc", 10, 10},
		{"-1", 5, 5},
		{"0", 5, 5},
		{"12.5", 5, 5},
	}

	for _, tt := range tests {
		if got := atoiDefault(tt.input, tt.def); got != tt.expected {
			t.Errorf("atoiDefault(%q, %d) = %d, expected %d", tt.input, tt.def, got, tt.expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	if got := parseDate("2024-05-01"); got.IsZero() {
		t.Error("parseDate rejected a valid date")
	}
	if got := parseDate("May 1st"); !got.IsZero() {
		t.Errorf("parseDate(\"May 1st\") = %v, want zero time", got)
	}
}
