package frame

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Validate(t *testing.T) {
	tests := []struct {
		name    string
		view    View
		wantErr error
	}{
		{
			name:    "zero value",
			view:    View{},
			wantErr: ErrEmptyFrame,
		},
		{
			name:    "zero width",
			view:    View{Pix: make([]byte, 12), Width: 0, Height: 2, Stride: 6, Format: FormatRGB},
			wantErr: ErrEmptyFrame,
		},
		{
			name:    "zero height",
			view:    View{Pix: make([]byte, 12), Width: 2, Height: 0, Stride: 6, Format: FormatRGB},
			wantErr: ErrEmptyFrame,
		},
		{
			name:    "no pixels",
			view:    View{Width: 2, Height: 2, Stride: 6, Format: FormatRGB},
			wantErr: ErrEmptyFrame,
		},
		{
			name:    "bgr is rejected",
			view:    View{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 6, Format: FormatBGR},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "unknown format is rejected",
			view:    View{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 6},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "stride too small",
			view:    View{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 4, Format: FormatRGB},
			wantErr: ErrShortBuffer,
		},
		{
			name:    "buffer too small",
			view:    View{Pix: make([]byte, 11), Width: 2, Height: 2, Stride: 6, Format: FormatRGB},
			wantErr: ErrShortBuffer,
		},
		{
			name: "packed rgb",
			view: View{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 6, Format: FormatRGB},
		},
		{
			name: "padded rows without trailing padding",
			view: View{Pix: make([]byte, 14), Width: 2, Height: 2, Stride: 8, Format: FormatRGB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestFromImage(t *testing.T) {
	t.Run("rgba fast path drops alpha", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

		v := FromImage(img)

		require.NoError(t, v.Validate())
		assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, v.Pix)
		assert.Equal(t, 6, v.Stride)
	})

	t.Run("generic image with offset bounds", func(t *testing.T) {
		img := image.NewGray(image.Rect(5, 5, 7, 7))
		img.SetGray(6, 6, color.Gray{Y: 200})

		v := FromImage(img)

		require.NoError(t, v.Validate())
		assert.Equal(t, 2, v.Width)
		assert.Equal(t, 2, v.Height)
		r, g, b := v.At(1, 1)
		assert.Equal(t, [3]uint8{200, 200, 200}, [3]uint8{r, g, b})
		r, _, _ = v.At(0, 0)
		assert.Equal(t, uint8(0), r)
	})

	t.Run("nil and empty images give empty views", func(t *testing.T) {
		assert.ErrorIs(t, FromImage(nil).Validate(), ErrEmptyFrame)
		assert.ErrorIs(t, FromImage(image.NewRGBA(image.Rect(0, 0, 0, 4))).Validate(), ErrEmptyFrame)
	})
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "rgb", FormatRGB.String())
	assert.Equal(t, "bgr", FormatBGR.String())
	assert.Equal(t, "Format(0)", FormatUnknown.String())
}
