package raster

// Bitmap is a 1-bit image packed row by row, eight pixels per byte with the
// leftmost pixel in the most significant bit. A set bit prints a dot.
type Bitmap struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewBitmap allocates a blank width×height bitmap
func NewBitmap(width, height int) *Bitmap {
	stride := (width + 7) / 8
	return &Bitmap{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// Width returns the width in dots
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in dots
func (b *Bitmap) Height() int { return b.height }

// Stride is the number of bytes per row
func (b *Bitmap) Stride() int { return b.stride }

// Set marks (x, y) as a dot
func (b *Bitmap) Set(x, y int) {
	b.data[y*b.stride+x/8] |= 0x80 >> (x % 8)
}

// Dot reports whether (x, y) prints
func (b *Bitmap) Dot(x, y int) bool {
	return b.data[y*b.stride+x/8]&(0x80>>(x%8)) != 0
}

// Rows returns the packed bytes of rows [start, start+n)
func (b *Bitmap) Rows(start, n int) []byte {
	return b.data[start*b.stride : (start+n)*b.stride]
}
