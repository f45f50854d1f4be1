package repository

import (
	"stampcam/internal/models"
	"stampcam/internal/settings"
)

// CaptureRepository defines the interface for capture history operations.
type CaptureRepository interface {
	Insert(c *models.Capture) (int64, error)

	GetByFilename(filename string) (*models.Capture, error)
	GetAll(filter *models.CaptureFilter) ([]models.Capture, error)
	GetTotalCount(filter *models.CaptureFilter) (int, error)

	DeleteByFilename(filename string) error
	DeleteAll() error
}

// SettingsRepository persists the flat settings record under a fixed key.
type SettingsRepository interface {
	LoadSettings() (settings.Settings, bool, error)
	SaveSettings(settings.Settings) error
}
