package raster

import (
	"image"
	"image/color"
)

// Image is the pixel source the raster encoder samples
type Image interface {
	// Width returns the width in pixels
	Width() int

	// Height returns the height in pixels
	Height() int

	// RGB returns the pixel at (x, y) as 0xAARRGGBB
	RGB(x, y int) uint32

	// SubImage returns the w×h region at (x, y), clipped to the image.
	// The region shares pixel data with the receiver. A non-positive w or h
	// yields an empty region.
	SubImage(x, y, w, h int) Image
}

// stdImage adapts an image.Image to Image
type stdImage struct {
	src  image.Image
	rect image.Rectangle
}

// FromImage wraps img so it can be passed to the raster encoder
func FromImage(img image.Image) Image {
	return &stdImage{src: img, rect: img.Bounds()}
}

// Width returns the width of the region in pixels
func (i *stdImage) Width() int { return i.rect.Dx() }

// Height returns the height of the region in pixels
func (i *stdImage) Height() int { return i.rect.Dy() }

// RGB returns the pixel at (x, y) relative to the region as 0xAARRGGBB
func (i *stdImage) RGB(x, y int) uint32 {
	c := color.NRGBAModel.Convert(i.src.At(i.rect.Min.X+x, i.rect.Min.Y+y)).(color.NRGBA)
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// SubImage returns a region of the same source image
func (i *stdImage) SubImage(x, y, w, h int) Image {
	if w <= 0 || h <= 0 {
		return &stdImage{src: i.src, rect: image.Rectangle{Min: i.rect.Min, Max: i.rect.Min}}
	}
	r := image.Rect(x, y, x+w, y+h).Add(i.rect.Min).Intersect(i.rect)
	return &stdImage{src: i.src, rect: r}
}
