package barcode

import (
	"fmt"
	"strings"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// HRIPosition places the human readable text relative to the bars (GS H n)
type HRIPosition byte

const (
	NotPrinted    HRIPosition = 48
	Above         HRIPosition = 49
	Below         HRIPosition = 50
	AboveAndBelow HRIPosition = 51
)

func (p HRIPosition) String() string {
	switch p {
	case NotPrinted:
		return "none"
	case Above:
		return "above"
	case Below:
		return "below"
	case AboveAndBelow:
		return "both"
	default:
		return fmt.Sprintf("HRIPosition(%d)", byte(p))
	}
}

// ParseHRIPosition accepts none, above, below or both
func ParseHRIPosition(s string) (HRIPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "notprinted":
		return NotPrinted, nil
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	case "both", "aboveandbelow":
		return AboveAndBelow, nil
	}
	return NotPrinted, fmt.Errorf("%w: unknown HRI position %q", escpos.ErrInvalidConfiguration, s)
}

// HRIFont selects the font of the human readable text (GS f n)
type HRIFont byte

const (
	FontA HRIFont = 48
	FontB HRIFont = 49
	FontC HRIFont = 50
)

func (f HRIFont) String() string {
	switch f {
	case FontA:
		return "A"
	case FontB:
		return "B"
	case FontC:
		return "C"
	default:
		return fmt.Sprintf("HRIFont(%d)", byte(f))
	}
}

// ParseHRIFont accepts A, B or C
func ParseHRIFont(s string) (HRIFont, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "A":
		return FontA, nil
	case "B":
		return FontB, nil
	case "C":
		return FontC, nil
	}
	return FontA, fmt.Errorf("%w: unknown HRI font %q", escpos.ErrInvalidConfiguration, s)
}
