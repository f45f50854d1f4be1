package settings

import (
	"sync"

	"stampcam/internal/logger"
)

// Store persists the settings record. Implemented by the sqlite key-value
// repository; faked in tests.
type Store interface {
	LoadSettings() (Settings, bool, error)
	SaveSettings(Settings) error
}

// Service owns the in-memory settings and writes every mutation through to
// the store. Storage failures are logged and swallowed so the app keeps
// running on in-memory values.
type Service struct {
	store  Store
	logger *logger.Logger

	mu      sync.RWMutex
	current Settings
}

// NewService loads persisted settings once at startup. Missing or corrupt
// data falls back to defaults.
func NewService(store Store, logger *logger.Logger) *Service {
	s := &Service{store: store, logger: logger, current: Defaults()}

	loaded, found, err := store.LoadSettings()
	if err != nil {
		logger.Warning("Failed to load settings, using defaults: %v", err)
		return s
	}
	if found {
		s.current = Normalize(loaded)
	}
	return s
}

// Current returns a copy of the active settings.
func (s *Service) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the active settings and persists them immediately.
func (s *Service) Update(next Settings) Settings {
	next = Normalize(next)

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	if err := s.store.SaveSettings(next); err != nil {
		s.logger.Warning("Failed to persist settings: %v", err)
	}
	return next
}
