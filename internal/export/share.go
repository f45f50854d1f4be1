package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"stampcam/internal/logger"
)

// ErrShareUnsupported means no share surface is configured on this install.
var ErrShareUnsupported = errors.New("export: no share surface configured")

// ShareClient posts captures to the configured share endpoint with a fixed
// title. A cancelled share is a normal user action, not a fault.
type ShareClient struct {
	url    string
	title  string
	client *http.Client
	logger *logger.Logger
}

// NewShareClient creates a share client. An empty url disables sharing.
func NewShareClient(url, title string, logger *logger.Logger) *ShareClient {
	return &ShareClient{
		url:    url,
		title:  title,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Supported reports whether a share surface is available.
func (s *ShareClient) Supported() bool {
	return s.url != ""
}

// Share uploads the photo as multipart form data. The first return value
// reports whether the share went through; a cancelled context yields
// (false, nil) since backing out of the dialog is not a fault. Any other
// failure is returned for the caller to log and move on.
func (s *ShareClient) Share(ctx context.Context, filename string, data []byte) (bool, error) {
	if !s.Supported() {
		return false, ErrShareUnsupported
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("title", s.title); err != nil {
		return false, fmt.Errorf("share: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return false, fmt.Errorf("share: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return false, fmt.Errorf("share: %w", err)
	}
	if err := writer.Close(); err != nil {
		return false, fmt.Errorf("share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &body)
	if err != nil {
		return false, fmt.Errorf("share: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// User backed out of the share dialog.
			return false, nil
		}
		return false, fmt.Errorf("share: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("share: endpoint returned %s", resp.Status)
	}

	s.logger.Info("Shared %s to %s", filename, s.url)
	return true, nil
}
