package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 23))
	src.SetNRGBA(10, 20, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	src.SetNRGBA(13, 22, color.NRGBA{R: 0xFF, A: 0x80})

	img := FromImage(src)
	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 3, img.Height())
	assert.Equal(t, uint32(0xFF123456), img.RGB(0, 0))
	assert.Equal(t, uint32(0x80FF0000), img.RGB(3, 2))
}

func TestSubImageSharesPixels(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	img := FromImage(src)

	sub := img.SubImage(2, 3, 4, 2)
	assert.Equal(t, 4, sub.Width())
	assert.Equal(t, 2, sub.Height())
	assert.Equal(t, uint32(0xFF000000), sub.RGB(0, 0))

	src.SetGray(2, 3, color.Gray{Y: 0xFF})
	assert.Equal(t, uint32(0xFFFFFFFF), sub.RGB(0, 0))

	nested := sub.SubImage(1, 1, 10, 10)
	assert.Equal(t, 3, nested.Width())
	assert.Equal(t, 1, nested.Height())
	src.SetGray(3, 4, color.Gray{Y: 0x80})
	assert.Equal(t, uint32(0xFF808080), nested.RGB(0, 0))
}

func TestSubImageOutside(t *testing.T) {
	img := FromImage(image.NewGray(image.Rect(0, 0, 4, 4)))
	sub := img.SubImage(10, 10, 2, 2)
	assert.Zero(t, sub.Width())
	assert.Zero(t, sub.Height())
}

func TestSubImageNonPositiveSize(t *testing.T) {
	img := FromImage(image.NewGray(image.Rect(0, 0, 8, 1)))

	for _, size := range [][2]int{{-3, 1}, {3, -1}, {0, 1}, {3, 0}} {
		sub := img.SubImage(5, 0, size[0], size[1])
		assert.Zero(t, sub.Width(), "size %v", size)
		assert.Zero(t, sub.Height(), "size %v", size)

		_, err := New().Encode(sub)
		assert.ErrorIs(t, err, escpos.ErrInvalidImage, "size %v", size)
	}
}

func TestThreshold(t *testing.T) {
	testCases := []struct {
		name string
		argb uint32
		dot  bool
	}{
		{"Black", 0xFF000000, true},
		{"White", 0xFFFFFFFF, false},
		{"DarkGray", 0xFF7F7F7F, true},
		{"MidGray", 0xFF808080, false},
		{"PureRed", 0xFFFF0000, true},
		{"PureGreen", 0xFF00FF00, false},
		{"PureBlue", 0xFF0000FF, true},
		{"TransparentBlack", 0x00000000, false},
		{"HalfAlphaBlack", 0x80000000, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.dot, DefaultThreshold.IsDot(tc.argb))
		})
	}

	assert.False(t, Threshold(0).IsDot(0xFF000000))
}

func TestBitmap(t *testing.T) {
	bm := NewBitmap(10, 2)
	assert.Equal(t, 2, bm.Stride())

	bm.Set(0, 0)
	bm.Set(9, 1)
	assert.True(t, bm.Dot(0, 0))
	assert.True(t, bm.Dot(9, 1))
	assert.False(t, bm.Dot(1, 0))
	assert.Equal(t, []byte{0x80, 0x00}, bm.Rows(0, 1))
	assert.Equal(t, []byte{0x00, 0x40}, bm.Rows(1, 1))
}
