// Package escpos holds what the bar-code and raster encoders share: control
// bytes, justification values, the error taxonomy and the Encoder capability.
package escpos

import (
	"fmt"
	"io"
)

// Control bytes
const (
	NUL byte = 0x00
	LF  byte = 0x0A
	ESC byte = 0x1B
	GS  byte = 0x1D
)

// Encoder turns one input into a complete ESC/POS command buffer.
type Encoder[T any] interface {
	// Encode validates in and returns the finished bytes
	Encode(in T) ([]byte, error)

	// Justification returns the alignment the encoder emits
	Justification() Justification
}

// Write encodes in and hands the whole buffer to w in a single call.
// When encoding fails nothing is written.
func Write[T any](w io.Writer, enc Encoder[T], in T) (int, error) {
	data, err := enc.Encode(in)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	return n, nil
}
