package camera

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Failure taxonomy for camera acquisition. Each maps to a distinct
// user-facing message and retry affordance in the handlers.
var (
	ErrPermissionDenied = errors.New("camera: access denied")
	ErrNoDevice         = errors.New("camera: no device found")
	ErrUnsupported      = errors.New("camera: capture not supported")
)

// classifyOpenError sorts a raw device-open failure into the taxonomy.
// Unknown failures are passed through wrapped.
func classifyOpenError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNoDevice) || errors.Is(err, ErrUnsupported) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case os.IsPermission(err) || strings.Contains(msg, "permission denied") || strings.Contains(msg, "not authorized"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(msg, "no such") || strings.Contains(msg, "not found") || strings.Contains(msg, "cannot open") || strings.Contains(msg, "out of device order"):
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	default:
		return fmt.Errorf("camera: start failed: %w", err)
	}
}
