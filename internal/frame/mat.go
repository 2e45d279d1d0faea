package frame

import (
	"fmt"

	"gocv.io/x/gocv"
)

// FromMat returns a view over the pixels of m without copying them. The
// caller states the channel order since a Mat does not record it. m must be
// an 8-bit 3-channel image and must stay open while the view is in use.
//
// Non-continuous Mats (ROIs) cannot be borrowed and are copied instead.
func FromMat(m *gocv.Mat, format Format) (View, error) {
	if m == nil || m.Empty() || m.Rows() <= 0 || m.Cols() <= 0 {
		return View{}, ErrEmptyFrame
	}
	if m.Type() != gocv.MatTypeCV8UC3 {
		return View{}, fmt.Errorf("%w: mat type %v", ErrUnsupportedFormat, m.Type())
	}

	v := View{
		Width:  m.Cols(),
		Height: m.Rows(),
		Stride: m.Cols() * Channels,
		Format: format,
	}

	if !m.IsContinuous() {
		clone := m.Clone()
		defer clone.Close()
		v.Pix = clone.ToBytes()
		return v, nil
	}

	pix, err := m.DataPtrUint8()
	if err != nil {
		return View{}, fmt.Errorf("borrow mat data: %w", err)
	}
	v.Pix = pix
	return v, nil
}

// Converter prepares capture frames for the graphs: it converts BGR to RGB
// and optionally mirrors the frame horizontally. The intermediate Mats are
// reused between calls, so a Converter must not be shared between goroutines.
type Converter struct {
	source Format
	mirror bool
	rgb    gocv.Mat
	out    gocv.Mat
}

// NewConverter creates a Converter for frames in the given source order.
func NewConverter(source Format, mirror bool) *Converter {
	return &Converter{
		source: source,
		mirror: mirror,
		rgb:    gocv.NewMat(),
		out:    gocv.NewMat(),
	}
}

// Convert returns an RGB version of src. The returned Mat is owned by the
// Converter and stays valid until the next call to Convert or Close. When no
// work is needed src itself is returned.
func (c *Converter) Convert(src *gocv.Mat) (*gocv.Mat, error) {
	if src == nil || src.Empty() {
		return nil, ErrEmptyFrame
	}

	cur := src
	switch c.source {
	case FormatRGB:
	case FormatBGR:
		gocv.CvtColor(*src, &c.rgb, gocv.ColorBGRToRGB)
		cur = &c.rgb
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.source)
	}

	if c.mirror {
		gocv.Flip(*cur, &c.out, 1) // horizontal
		cur = &c.out
	}

	return cur, nil
}

// View converts src and returns an RGB view over the result.
func (c *Converter) View(src *gocv.Mat) (View, error) {
	m, err := c.Convert(src)
	if err != nil {
		return View{}, err
	}
	return FromMat(m, FormatRGB)
}

// Close releases the intermediate Mats.
func (c *Converter) Close() error {
	if err := c.rgb.Close(); err != nil {
		return err
	}
	return c.out.Close()
}
