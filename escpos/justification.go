package escpos

import (
	"fmt"
	"strings"
)

// Justification is the operand of ESC a n
type Justification byte

const (
	Left   Justification = 48
	Center Justification = 49
	Right  Justification = 50
)

func (j Justification) String() string {
	switch j {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Justification(%d)", byte(j))
	}
}

// Command returns ESC a n for j
func (j Justification) Command() []byte {
	return []byte{ESC, 'a', byte(j)}
}

// ParseJustification accepts "left", "center" or "right" in any case.
// An empty string yields Left.
func ParseJustification(s string) (Justification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return Left, nil
	case "center", "centre":
		return Center, nil
	case "right":
		return Right, nil
	}
	return Left, fmt.Errorf("%w: unknown justification %q", ErrInvalidConfiguration, s)
}
