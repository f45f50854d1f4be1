// Package camera manages the active device camera session: start, flip
// between facing modes, read frames, stop. One session is live at a time.
package camera

import (
	"image"
	"sync"

	"github.com/google/uuid"

	"stampcam/internal/capture"
	"stampcam/internal/config"
	"stampcam/internal/logger"
)

// State of the session manager.
const (
	StateIdle   = "idle"
	StateActive = "active"
	StateError  = "error"
)

// Device is an open camera handle. Implemented over gocv for real hardware
// and faked in tests.
type Device interface {
	ReadFrame() (image.Image, error)
	Close() error
}

// Opener opens the numbered device with ideal resolution hints. The hints
// are best-effort; the device may deliver another mode.
type Opener func(deviceID, width, height int) (Device, error)

// Session wraps one open device with its facing mode.
type Session struct {
	ID     string
	Facing string
	device Device
}

// Frame reads the current frame from the session's device.
func (s *Session) Frame() (image.Image, error) {
	return s.device.ReadFrame()
}

// Manager owns the session lifecycle. All methods are safe for concurrent
// use; transitions are synchronous from the caller's perspective.
type Manager struct {
	opener Opener
	cfg    *config.Config
	logger *logger.Logger

	mu      sync.Mutex
	session *Session
	facing  string
	state   string
	lastErr error
}

// NewManager creates an idle manager. A nil opener means no capture backend
// exists on this host; Start then fails with ErrUnsupported.
func NewManager(opener Opener, cfg *config.Config, logger *logger.Logger) *Manager {
	return &Manager{
		opener: opener,
		cfg:    cfg,
		logger: logger,
		facing: capture.FacingRear,
		state:  StateIdle,
	}
}

// Start acquires the device for the given facing mode, stopping any prior
// session first. Failures are classified into the package error taxonomy.
func (m *Manager) Start(facing string) (*Session, error) {
	if facing != capture.FacingFront {
		facing = capture.FacingRear
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(facing)
}

func (m *Manager) startLocked(facing string) (*Session, error) {
	m.stopLocked()
	m.facing = facing

	if m.opener == nil {
		m.state = StateError
		m.lastErr = ErrUnsupported
		return nil, ErrUnsupported
	}

	deviceID := m.cfg.RearDeviceID
	if facing == capture.FacingFront {
		deviceID = m.cfg.FrontDeviceID
	}

	device, err := m.opener(deviceID, m.cfg.CaptureWidth, m.cfg.CaptureHeight)
	if err != nil {
		err = classifyOpenError(err)
		m.state = StateError
		m.lastErr = err
		m.logger.Warning("Camera start failed (facing %s, device %d): %v", facing, deviceID, err)
		return nil, err
	}

	m.session = &Session{
		ID:     uuid.NewString(),
		Facing: facing,
		device: device,
	}
	m.state = StateActive
	m.lastErr = nil
	m.logger.Info("Camera session %s started (facing %s, device %d)", m.session.ID, facing, deviceID)
	return m.session, nil
}

// Flip toggles the facing mode and restarts the session.
func (m *Manager) Flip() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := capture.FacingFront
	if m.facing == capture.FacingFront {
		next = capture.FacingRear
	}
	return m.startLocked(next)
}

// Stop releases the device and returns the manager to idle.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.state = StateIdle
	m.lastErr = nil
}

func (m *Manager) stopLocked() {
	if m.session == nil {
		return
	}
	if err := m.session.device.Close(); err != nil {
		m.logger.Warning("Error closing camera device: %v", err)
	}
	m.logger.Info("Camera session %s stopped", m.session.ID)
	m.session = nil
}

// Active returns the live session, or nil when idle or errored.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Status reports the current state, facing mode and last acquisition error.
func (m *Manager) Status() (state, facing string, lastErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.facing, m.lastErr
}
