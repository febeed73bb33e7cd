// Package barcode encodes bar-code print requests into ESC/POS commands.
package barcode

import (
	"bytes"
	"fmt"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// Module width codes accepted by GS w. The two ranges are distinct firmware
// encodings and there is no valid value between them.
const (
	minWidth      = 2
	maxWidth      = 6
	minWidthExt   = 68
	maxWidthExt   = 76
	minHeight     = 1
	maxHeight     = 255
	maxPayloadLen = 255
)

// Encoder holds bar-code settings and turns payloads into GS k commands.
// Setters must not race with Encode; concurrent Encode calls are safe.
type Encoder struct {
	system        System
	width         int
	height        int
	hriPosition   HRIPosition
	hriFont       HRIFont
	justification escpos.Justification
}

var _ escpos.Encoder[string] = (*Encoder)(nil)

// New creates an encoder with the printer defaults: CODE93, module width 2,
// 100 dots high, no HRI text, font A, left justified.
func New() *Encoder {
	return &Encoder{
		system:        CODE93,
		width:         2,
		height:        100,
		hriPosition:   NotPrinted,
		hriFont:       FontA,
		justification: escpos.Left,
	}
}

// SetSystem selects the symbology
func (e *Encoder) SetSystem(system System) *Encoder {
	e.system = system
	return e
}

// SetBarCodeSize sets the module width code and bar height in dots.
// Width must be in 2..6 or 68..76 and height in 1..255; on error neither
// value changes.
func (e *Encoder) SetBarCodeSize(width, height int) (*Encoder, error) {
	if (width < minWidth || width > maxWidth) && (width < minWidthExt || width > maxWidthExt) {
		return e, fmt.Errorf("%w: width %d must be between %d and %d or between %d and %d",
			escpos.ErrInvalidConfiguration, width, minWidth, maxWidth, minWidthExt, maxWidthExt)
	}
	if height < minHeight || height > maxHeight {
		return e, fmt.Errorf("%w: height %d must be between %d and %d",
			escpos.ErrInvalidConfiguration, height, minHeight, maxHeight)
	}
	e.width = width
	e.height = height
	return e, nil
}

// SetHRIPosition sets where the human readable text is printed
func (e *Encoder) SetHRIPosition(position HRIPosition) *Encoder {
	e.hriPosition = position
	return e
}

// SetHRIFont sets the font of the human readable text
func (e *Encoder) SetHRIFont(font HRIFont) *Encoder {
	e.hriFont = font
	return e
}

// SetJustification sets the horizontal alignment of the bar-code
func (e *Encoder) SetJustification(justification escpos.Justification) *Encoder {
	e.justification = justification
	return e
}

// System returns the selected symbology
func (e *Encoder) System() System { return e.system }

// Width returns the module width sent with GS w
func (e *Encoder) Width() int { return e.width }

// Height returns the bar height in dots sent with GS h
func (e *Encoder) Height() int { return e.height }

// HRIPosition returns where the human readable text is printed
func (e *Encoder) HRIPosition() HRIPosition { return e.hriPosition }

// HRIFont returns the font of the human readable text
func (e *Encoder) HRIFont() HRIFont { return e.hriFont }

// Justification returns the alignment sent with ESC a
func (e *Encoder) Justification() escpos.Justification { return e.justification }

// Validate checks data against the configured symbology without encoding
func (e *Encoder) Validate(data string) error {
	code, pattern, framing, ok := Lookup(e.system)
	if !ok {
		return fmt.Errorf("%w: unknown bar-code system %d", escpos.ErrInvalidConfiguration, int(e.system))
	}
	if !pattern.MatchString(data) {
		return fmt.Errorf("%w: data must match \"%s\" for %s", escpos.ErrInvalidPayload, pattern.String(), e.system)
	}
	if framing == LengthPrefixed && len(data) > maxPayloadLen {
		return fmt.Errorf("%w: %d bytes exceed the %d byte limit of system %d",
			escpos.ErrInvalidPayload, len(data), maxPayloadLen, code)
	}
	return nil
}

// Encode returns the commands that print data as a bar-code:
//
//	GS h n      bar height
//	GS w n      module width
//	GS H n      HRI position
//	GS f n      HRI font
//	ESC a n     justification
//	GS k m ...  bar-code data, NUL-terminated for m <= 6, length-prefixed otherwise
func (e *Encoder) Encode(data string) ([]byte, error) {
	if err := e.Validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(18 + len(data))

	buf.Write([]byte{escpos.GS, 'h', byte(e.height)})
	buf.Write([]byte{escpos.GS, 'w', byte(e.width)})
	buf.Write([]byte{escpos.GS, 'H', byte(e.hriPosition)})
	buf.Write([]byte{escpos.GS, 'f', byte(e.hriFont)})
	buf.Write(e.justification.Command())

	buf.Write([]byte{escpos.GS, 'k', e.system.Code()})
	switch e.system.Framing() {
	case NullTerminated:
		buf.WriteString(data)
		buf.WriteByte(escpos.NUL)
	case LengthPrefixed:
		buf.WriteByte(byte(len(data)))
		buf.WriteString(data)
	}

	return buf.Bytes(), nil
}
