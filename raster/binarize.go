package raster

// Binarizer decides which pixels become dots. Thermal heads have no gray
// levels, so every image goes through one before packing.
type Binarizer interface {
	Binarize(img Image) *Bitmap
}

// DefaultThreshold splits the luminance range in half
const DefaultThreshold Threshold = 128

// Threshold prints a pixel when it is mostly opaque and its BT.601 luma,
// (299R + 587G + 114B) / 1000, is below the threshold. Pixels with alpha
// under 128 are treated as paper.
type Threshold uint8

// Binarize samples every pixel of img through IsDot
func (t Threshold) Binarize(img Image) *Bitmap {
	width, height := img.Width(), img.Height()
	bm := NewBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if t.IsDot(img.RGB(x, y)) {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

// IsDot applies the threshold to a single 0xAARRGGBB sample
func (t Threshold) IsDot(argb uint32) bool {
	if argb>>24 < 128 {
		return false
	}
	r := (argb >> 16) & 0xFF
	g := (argb >> 8) & 0xFF
	b := argb & 0xFF
	luma := (299*r + 587*g + 114*b) / 1000
	return luma < uint32(t)
}
