// Package capture implements the still-photo pipeline: orientation
// correction, selfie mirroring, timestamp burn-in and JPEG export. It is
// pure image work with no HTTP or storage dependencies.
package capture

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/jpeg"
)

// Camera sensors deliver landscape frames natively; when the device is held
// portrait the frame gets rotated a quarter turn before export.

const jpegQuality = 92

// Facing mode of the active camera.
const (
	FacingRear  = "environment"
	FacingFront = "user"
)

var (
	// ErrNotReady means the source frame had no pixels yet. Callers treat
	// it as a transient no-op, not a fault.
	ErrNotReady = errors.New("capture: frame not ready")

	// ErrEncodeFailed means JPEG encoding produced no usable data.
	ErrEncodeFailed = errors.New("capture: encode failed")
)

// Options describe how a single frame should be turned into a photo.
type Options struct {
	DevicePortrait bool   // device held portrait at capture time
	Facing         string // FacingRear or FacingFront
	StampText      string // empty suppresses the burned-in stamp
}

// Result is one exported photo.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Stamped bool
}

// Process renders frame onto a correctly-oriented buffer, optionally burns
// the timestamp into the bottom-right corner, and encodes the buffer as JPEG.
func Process(frame image.Image, opts Options) (*Result, error) {
	if frame == nil {
		return nil, ErrNotReady
	}
	bounds := frame.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrNotReady
	}

	buf := toRGBA(frame)

	if opts.DevicePortrait && bounds.Dx() > bounds.Dy() {
		buf = rotate90(buf)
	}
	if opts.Facing == FacingFront {
		buf = mirror(buf)
	}
	if opts.StampText != "" {
		drawStamp(buf, opts.StampText)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, buf, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, ErrEncodeFailed
	}
	if out.Len() == 0 {
		return nil, ErrEncodeFailed
	}

	return &Result{
		Data:    out.Bytes(),
		Width:   buf.Bounds().Dx(),
		Height:  buf.Bounds().Dy(),
		Stamped: opts.StampText != "",
	}, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}

// rotate90 rotates the frame a quarter turn clockwise, swapping dimensions.
func rotate90(src *image.RGBA) *image.RGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(h-1-y, x)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// mirror flips the frame horizontally (selfie convention for the front camera).
func mirror(src *image.RGBA) *image.RGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(w-1-x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
