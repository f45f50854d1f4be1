// Command migrate backfills the capture database from photo files already
// sitting in the image directory, for installs that predate the database.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	_ "image/jpeg"

	"stampcam/internal/capture"
	"stampcam/internal/export"
	"stampcam/internal/models"
	"stampcam/internal/repository/sqlite"
)

func main() {
	imagesDir := flag.String("images", "captures", "Directory containing photos")
	dbPath := flag.String("db", filepath.Join("data", "stampcam.db"), "Database path")
	flag.Parse()

	fmt.Printf("Migrating photos from %s to database %s\n", *imagesDir, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewCaptureRepository(db)

	files, err := os.ReadDir(*imagesDir)
	if err != nil {
		log.Fatalf("Failed to read image directory: %v", err)
	}

	migrated := 0
	skipped := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".jpg" {
			continue
		}

		taken, err := export.ParseFilename(file.Name())
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		existing, err := repo.GetByFilename(file.Name())
		if err != nil {
			log.Fatalf("Failed to check %s: %v", file.Name(), err)
		}
		if existing != nil {
			skipped++
			continue
		}

		fullpath := filepath.Join(*imagesDir, file.Name())
		info, err := file.Info()
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		width, height := photoDimensions(fullpath)

		_, err = repo.Insert(&models.Capture{
			Filename:  file.Name(),
			Facing:    capture.FacingRear, // unknowable after the fact
			Width:     width,
			Height:    height,
			Timestamp: taken,
			FilePath:  fullpath,
			FileSize:  info.Size(),
		})
		if err != nil {
			log.Fatalf("Failed to insert %s: %v", file.Name(), err)
		}
		migrated++
	}

	fmt.Printf("Migrated %d photos, skipped %d\n", migrated, skipped)
}

func photoDimensions(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
