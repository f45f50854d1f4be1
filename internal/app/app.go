package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"stampcam/internal/assets"
	"stampcam/internal/camera"
	"stampcam/internal/config"
	"stampcam/internal/export"
	"stampcam/internal/logger"
	"stampcam/internal/preview"
	"stampcam/internal/repository/sqlite"
	"stampcam/internal/routes"
	"stampcam/internal/settings"
	"stampcam/internal/storage"
)

// App wires config, storage, the capture services and the HTTP surface.
type App struct {
	config      *config.Config
	logger      *logger.Logger
	db          *sqlite.DB
	captures    *sqlite.CaptureRepository
	settings    *settings.Service
	buffer      *storage.BufferService
	camera      *camera.Manager
	hub         *preview.Hub
	broadcaster *preview.Broadcaster
	share       *export.ShareClient
	assets      *assets.Cache
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	captureRepo := sqlite.NewCaptureRepository(db)
	settingsSvc := settings.NewService(sqlite.NewSettingsRepository(db), log)
	buffer := storage.NewBufferService(cfg.ImageDirectory, cfg.CaptureBufferLimit, captureRepo, log)

	var opener camera.Opener
	if cfg.DeviceCaptureEnabled {
		opener = camera.NewGocvOpener()
	}
	cameraMgr := camera.NewManager(opener, cfg, log)

	hub := preview.NewHub(log)
	broadcaster := preview.NewBroadcaster(hub, settingsSvc)
	share := export.NewShareClient(cfg.ShareURL, cfg.ShareTitle, log)
	assetCache := assets.NewCache(cfg.StaticDirectory, cfg.AssetCacheDirectory, cfg.AssetCacheVersion, nil, log)

	return &App{
		config:      cfg,
		logger:      log,
		db:          db,
		captures:    captureRepo,
		settings:    settingsSvc,
		buffer:      buffer,
		camera:      cameraMgr,
		hub:         hub,
		broadcaster: broadcaster,
		share:       share,
		assets:      assetCache,
	}, nil
}

func (a *App) Run() error {
	if err := a.assets.Activate(); err != nil {
		a.logger.Warning("Asset cache activation failed: %v", err)
	}

	// Background services
	go a.buffer.Run(a.config.CaptureBufferFlushInterval)
	go a.hub.Run()
	go a.broadcaster.Run()

	router := routes.SetupRoutes(routes.Deps{
		Config:      a.config,
		Logger:      a.logger,
		Settings:    a.settings,
		Captures:    a.captures,
		Buffer:      a.buffer,
		Camera:      a.camera,
		Hub:         a.hub,
		Broadcaster: a.broadcaster,
		Share:       a.share,
		Assets:      a.assets,
	})

	fmt.Printf("Timestamp Camera Server\n")
	fmt.Printf("URL:      http://localhost:%d\n", a.config.Port)
	fmt.Printf("Captures: %s\n", a.config.ImageDirectory)
	fmt.Printf("Database: %s\n", a.config.DatabasePath)

	a.logger.Info("Server listening on port %d", a.config.Port)
	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases the database and stops the camera session.
func (a *App) Close() {
	a.camera.Stop()
	a.buffer.Flush()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database: %v", err)
	}
}
