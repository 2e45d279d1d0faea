// Package frame adapts caller-owned images into the read-only pixel views
// accepted by the inference graphs.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Errors returned when an image cannot be handed to a graph.
var (
	ErrEmptyFrame        = errors.New("frame is empty")
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	ErrShortBuffer       = errors.New("pixel buffer shorter than frame geometry")
)

// Format is the channel order of a packed 8-bit pixel buffer.
type Format int

const (
	// FormatUnknown is the zero value and is never accepted by a graph.
	FormatUnknown Format = iota
	// FormatRGB is the order the graphs expect.
	FormatRGB
	// FormatBGR is the order delivered by OpenCV capture devices.
	FormatBGR
)

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatBGR:
		return "bgr"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Channels is the number of bytes per pixel for all supported formats.
const Channels = 3

// View is a borrowed, row-major pixel buffer. A View never owns Pix; the
// image it was derived from must outlive every use of the view.
type View struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Format Format
}

// Empty reports whether the view has no pixels to process.
func (v View) Empty() bool {
	return v.Width <= 0 || v.Height <= 0 || len(v.Pix) == 0
}

// Validate checks the view against the contract of the graph boundary:
// non-empty, RGB, and a buffer large enough for the declared geometry.
func (v View) Validate() error {
	if v.Empty() {
		return ErrEmptyFrame
	}
	if v.Format != FormatRGB {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, v.Format)
	}
	row := v.Width * Channels
	if v.Stride < row {
		return fmt.Errorf("%w: stride %d < row %d", ErrShortBuffer, v.Stride, row)
	}
	if need := (v.Height-1)*v.Stride + row; len(v.Pix) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(v.Pix), need)
	}
	return nil
}

// At returns the pixel at (x, y) in the view's channel order.
func (v View) At(x, y int) (c0, c1, c2 uint8) {
	i := y*v.Stride + x*Channels
	return v.Pix[i], v.Pix[i+1], v.Pix[i+2]
}

// FromImage copies img into a packed RGB view. Alpha is dropped.
func FromImage(img image.Image) View {
	if img == nil {
		return View{Format: FormatRGB}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return View{Format: FormatRGB}
	}

	v := View{
		Pix:    make([]byte, w*h*Channels),
		Width:  w,
		Height: h,
		Stride: w * Channels,
		Format: FormatRGB,
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			src := rgba.Pix[y*rgba.Stride:]
			dst := v.Pix[y*v.Stride:]
			for x := 0; x < w; x++ {
				dst[x*3] = src[x*4]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
		return v
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*v.Stride + x*Channels
			v.Pix[i], v.Pix[i+1], v.Pix[i+2] = c.R, c.G, c.B
		}
	}
	return v
}
