package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                       int
	Password                   string
	DatabasePath               string
	ImageDirectory             string
	CaptureBufferLimit         int
	CaptureBufferFlushInterval int
	StaticDirectory            string
	AssetCacheDirectory        string
	AssetCacheVersion          string
	CaptureWidth               int // ideal resolution hint for the device camera
	CaptureHeight              int
	RearDeviceID               int
	FrontDeviceID              int
	DeviceCaptureEnabled       bool
	ShareURL                   string // empty means no native share surface
	ShareTitle                 string
	LogDirectory               string
}

func Load() *Config {
	// A missing .env file is fine, plain env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:                       getEnvAsInt("PORT", 8080),
		Password:                   getEnv("PASSWORD", "stampcam"),
		DatabasePath:               getEnv("DB_PATH", filepath.Join(".", "data", "stampcam.db")),
		ImageDirectory:             getEnv("IMAGE_DIR", filepath.Join(".", "captures")),
		CaptureBufferLimit:         getEnvAsInt("BUFFER_LIMIT", 16),
		CaptureBufferFlushInterval: getEnvAsInt("FLUSH_INTERVAL", 10),
		StaticDirectory:            getEnv("STATIC_DIR", filepath.Join(".", "static")),
		AssetCacheDirectory:        getEnv("ASSET_CACHE_DIR", filepath.Join(".", "data", "asset-cache")),
		AssetCacheVersion:          getEnv("ASSET_CACHE_VERSION", "v2"),
		CaptureWidth:               getEnvAsInt("CAPTURE_WIDTH", 1920),
		CaptureHeight:              getEnvAsInt("CAPTURE_HEIGHT", 1080),
		RearDeviceID:               getEnvAsInt("REAR_DEVICE_ID", 0),
		FrontDeviceID:              getEnvAsInt("FRONT_DEVICE_ID", 1),
		DeviceCaptureEnabled:       getEnvAsBool("DEVICE_CAPTURE", true),
		ShareURL:                   getEnv("SHARE_URL", ""),
		ShareTitle:                 getEnv("SHARE_TITLE", "Timestamp Photo"),
		LogDirectory:               getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
