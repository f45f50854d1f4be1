package camera

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// gocvDevice reads frames from a local camera through OpenCV. A single Mat
// is reused across reads to avoid per-frame allocations.
type gocvDevice struct {
	mu     sync.Mutex
	webcam *gocv.VideoCapture
	frame  gocv.Mat
}

// NewGocvOpener returns an Opener backed by gocv. The resolution hints are
// applied as capture properties; drivers treat them as ideals, not demands.
func NewGocvOpener() Opener {
	return func(deviceID, width, height int) (Device, error) {
		webcam, err := gocv.OpenVideoCapture(deviceID)
		if err != nil {
			return nil, fmt.Errorf("cannot open device %d: %w", deviceID, err)
		}
		if !webcam.IsOpened() {
			webcam.Close()
			return nil, fmt.Errorf("cannot open device %d", deviceID)
		}

		webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))

		return &gocvDevice{
			webcam: webcam,
			frame:  gocv.NewMat(),
		}, nil
	}
}

func (d *gocvDevice) ReadFrame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.webcam.Read(&d.frame) {
		return nil, fmt.Errorf("cannot read frame from device")
	}
	if d.frame.Empty() {
		return nil, fmt.Errorf("device returned an empty frame")
	}
	return d.frame.ToImage()
}

func (d *gocvDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frame.Close()
	return d.webcam.Close()
}
