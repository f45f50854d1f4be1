package capture

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Stamp geometry scales with buffer width so the text stays readable at any
// resolution.
const (
	stampSizeDivisor   = 32  // font size = width / 32
	stampMarginDivisor = 40  // margin = width / 40
	stampMinSize       = 14.0
	stampMinMargin     = 8
)

var (
	stampFontOnce sync.Once
	stampFont     *sfnt.Font
	stampFontErr  error

	stampFaceMu sync.Mutex
	stampFaces  = map[float64]font.Face{}
)

func stampFace(size float64) (font.Face, error) {
	stampFontOnce.Do(func() {
		stampFont, stampFontErr = opentype.Parse(gomonobold.TTF)
	})
	if stampFontErr != nil {
		return nil, stampFontErr
	}

	stampFaceMu.Lock()
	defer stampFaceMu.Unlock()

	if face, ok := stampFaces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(stampFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	stampFaces[size] = face
	return face, nil
}

// drawStamp burns text into the bottom-right corner of dst: bold monospace,
// sized and padded relative to buffer width, with a dark drop shadow under
// white text for legibility on any background.
func drawStamp(dst *image.RGBA, text string) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	size := float64(w) / stampSizeDivisor
	if size < stampMinSize {
		size = stampMinSize
	}
	margin := w / stampMarginDivisor
	if margin < stampMinMargin {
		margin = stampMinMargin
	}

	face, err := stampFace(size)
	if err != nil {
		// The font ships with the binary, so this never fires in practice.
		return
	}

	advance := font.MeasureString(face, text)
	dot := fixed.Point26_6{
		X: fixed.I(w-margin) - advance,
		Y: fixed.I(h - margin),
	}

	shadow := int(size / 12)
	if shadow < 1 {
		shadow = 1
	}

	shadowDrawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 200}),
		Face: face,
		Dot:  fixed.Point26_6{X: dot.X + fixed.I(shadow), Y: dot.Y + fixed.I(shadow)},
	}
	shadowDrawer.DrawString(text)

	textDrawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  dot,
	}
	textDrawer.DrawString(text)
}
