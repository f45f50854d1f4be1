// Package storage batches finished captures in memory and flushes them to
// the image directory and the capture repository on an interval.
package storage

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"stampcam/internal/logger"
	"stampcam/internal/models"
	"stampcam/internal/repository"
)

type pendingCapture struct {
	capture models.Capture
	data    []byte
}

// BufferService holds captures that have not hit disk yet.
type BufferService struct {
	imagesDir   string
	bufferLimit int
	repo        repository.CaptureRepository
	logger      *logger.Logger

	mu      sync.Mutex
	pending []pendingCapture
}

func NewBufferService(imagesDir string, bufferLimit int, repo repository.CaptureRepository, logger *logger.Logger) *BufferService {
	return &BufferService{
		imagesDir:   imagesDir,
		bufferLimit: bufferLimit,
		repo:        repo,
		logger:      logger,
		pending:     make([]pendingCapture, 0),
	}
}

// Run flushes the buffer every flushInterval seconds. Meant to be started
// as a goroutine.
func (s *BufferService) Run(flushInterval int) {
	ticker := time.NewTicker(time.Duration(flushInterval) * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		s.Flush()
	}
}

// Add queues a capture for persistence. A full buffer is flushed inline so
// no photo is ever dropped.
func (s *BufferService) Add(data []byte, capture models.Capture) {
	s.mu.Lock()
	if len(s.pending) >= s.bufferLimit {
		s.flushLocked()
	}
	s.pending = append(s.pending, pendingCapture{capture: capture, data: data})
	s.logger.Info("Buffered capture %s (%d/%d)", capture.Filename, len(s.pending), s.bufferLimit)
	s.mu.Unlock()
}

// Get returns the bytes of a capture still sitting in the buffer.
func (s *BufferService) Get(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		if p.capture.Filename == filename {
			return p.data, true
		}
	}
	return nil, false
}

// Flush writes all pending captures to disk and records them in the
// repository.
func (s *BufferService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *BufferService) flushLocked() {
	if len(s.pending) == 0 {
		return
	}

	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		s.logger.Error("Error creating image directory: %v", err)
		return
	}

	flushed := 0
	for _, p := range s.pending {
		fullpath := filepath.Join(s.imagesDir, p.capture.Filename)

		if err := os.WriteFile(fullpath, p.data, 0644); err != nil {
			s.logger.Error("Error saving capture %s: %v", p.capture.Filename, err)
			continue
		}

		record := p.capture
		record.FilePath = fullpath
		record.FileSize = int64(len(p.data))
		if _, err := s.repo.Insert(&record); err != nil {
			s.logger.Error("Error recording capture %s: %v", record.Filename, err)
			continue
		}
		flushed++
	}

	s.logger.Info("Flushed %d captures to disk", flushed)
	s.pending = s.pending[:0]
}
