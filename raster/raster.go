// Package raster encodes images as ESC/POS raster bit images (GS v 0).
package raster

import (
	"bytes"
	"fmt"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// Mode is the m operand of GS v 0, scaling every dot
type Mode byte

const (
	Normal       Mode = 48
	DoubleWidth  Mode = 49
	DoubleHeight Mode = 50
	Quadruple    Mode = 51
)

// GS v 0 carries both dimensions as 16-bit little-endian values
const maxDimension = 0xFFFF

// Encoder turns images into raster commands.
// Setters must not race with Encode; concurrent Encode calls are safe.
type Encoder struct {
	justification escpos.Justification
	binarizer     Binarizer
	mode          Mode
	bandHeight    int
}

var _ escpos.Encoder[Image] = (*Encoder)(nil)

// New creates a left justified encoder using DefaultThreshold
func New() *Encoder {
	return &Encoder{
		justification: escpos.Left,
		binarizer:     DefaultThreshold,
		mode:          Normal,
		bandHeight:    maxDimension,
	}
}

// SetJustification sets the horizontal alignment of the image
func (e *Encoder) SetJustification(justification escpos.Justification) *Encoder {
	e.justification = justification
	return e
}

// SetBinarizer replaces the pixel-to-dot policy. nil restores the default.
func (e *Encoder) SetBinarizer(b Binarizer) *Encoder {
	if b == nil {
		b = DefaultThreshold
	}
	e.binarizer = b
	return e
}

// SetMode sets the dot scaling mode
func (e *Encoder) SetMode(mode Mode) *Encoder {
	e.mode = mode
	return e
}

// SetBandHeight limits how many rows go into one GS v 0 command. Printers
// with small receive buffers need images split into several bands.
func (e *Encoder) SetBandHeight(rows int) (*Encoder, error) {
	if rows < 1 || rows > maxDimension {
		return e, fmt.Errorf("%w: band height %d must be between 1 and %d",
			escpos.ErrInvalidConfiguration, rows, maxDimension)
	}
	e.bandHeight = rows
	return e, nil
}

// Justification returns the alignment sent with ESC a
func (e *Encoder) Justification() escpos.Justification { return e.justification }

// Mode returns the GS v 0 scaling mode
func (e *Encoder) Mode() Mode { return e.mode }

// BandHeight returns the maximum rows per GS v 0 command
func (e *Encoder) BandHeight() int { return e.bandHeight }

// Encode returns ESC a n followed by one GS v 0 m xL xH yL yH d1...dk
// command per band, where x is the row width in bytes and y the band height
// in dots.
func (e *Encoder) Encode(img Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", escpos.ErrInvalidImage)
	}
	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", escpos.ErrInvalidImage, width, height)
	}
	if (width+7)/8 > maxDimension {
		return nil, fmt.Errorf("%w: width %d exceeds %d bytes per row", escpos.ErrInvalidImage, width, maxDimension)
	}

	bm := e.binarizer.Binarize(img)
	if bm == nil || bm.Width() != width || bm.Height() != height {
		return nil, fmt.Errorf("%w: binarizer returned a bitmap of the wrong size", escpos.ErrInvalidImage)
	}
	stride := bm.Stride()

	var buf bytes.Buffer
	buf.Grow(3 + (height/e.bandHeight+1)*8 + stride*height)
	buf.Write(e.justification.Command())

	for start := 0; start < height; start += e.bandHeight {
		rows := min(e.bandHeight, height-start)
		buf.Write([]byte{
			escpos.GS, 'v', '0', byte(e.mode),
			byte(stride), byte(stride >> 8),
			byte(rows), byte(rows >> 8),
		})
		buf.Write(bm.Rows(start, rows))
	}

	return buf.Bytes(), nil
}
