package barcode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// System selects a bar-code symbology. The set is fixed by the printer
// protocol; each value carries the m operand of GS k and a payload grammar.
type System int

const (
	UPCA System = iota
	UPCA_B
	UPCE_A
	UPCE_B
	JAN13_A
	JAN13_B
	JAN8_A
	JAN8_B
	CODE39_A
	CODE39_B
	ITF_A
	ITF_B
	CODABAR_A
	CODABAR_B
	CODE93
	CODE128
)

// Framing is how the end of a GS k payload is signalled to the printer
type Framing int

const (
	// NullTerminated payloads are followed by a single NUL byte
	NullTerminated Framing = iota
	// LengthPrefixed payloads are preceded by a single length byte
	LengthPrefixed
)

func (f Framing) String() string {
	if f == NullTerminated {
		return "null-terminated"
	}
	return "length-prefixed"
}

// lastNullTerminatedCode is the highest GS k m value using the NUL-terminated
// form. Codes 65 and above carry a length byte instead.
const lastNullTerminatedCode = 6

type symbology struct {
	name    string
	code    byte
	pattern *regexp.Regexp
}

var symbologies = [...]symbology{
	UPCA:      {"UPCA", 0, regexp.MustCompile(`^\d{11,12}$`)},
	UPCA_B:    {"UPCA_B", 65, regexp.MustCompile(`^\d{11,12}$`)},
	UPCE_A:    {"UPCE_A", 1, regexp.MustCompile(`^(?:\d{6}|0\d{6,7}|0\d{10,11})$`)},
	UPCE_B:    {"UPCE_B", 66, regexp.MustCompile(`^(?:\d{6}|0\d{6,7}|0\d{10,11})$`)},
	JAN13_A:   {"JAN13_A", 2, regexp.MustCompile(`^\d{12,13}$`)},
	JAN13_B:   {"JAN13_B", 67, regexp.MustCompile(`^\d{12,13}$`)},
	JAN8_A:    {"JAN8_A", 3, regexp.MustCompile(`^\d{7,8}$`)},
	JAN8_B:    {"JAN8_B", 68, regexp.MustCompile(`^\d{7,8}$`)},
	CODE39_A:  {"CODE39_A", 4, regexp.MustCompile(`^[0-9A-Z $%*+\-./]+$`)},
	CODE39_B:  {"CODE39_B", 69, regexp.MustCompile(`^[0-9A-Z $%*+\-./]+$`)},
	ITF_A:     {"ITF_A", 5, regexp.MustCompile(`^(?:\d{2})+$`)},
	ITF_B:     {"ITF_B", 70, regexp.MustCompile(`^(?:\d{2})+$`)},
	CODABAR_A: {"CODABAR_A", 6, regexp.MustCompile(`^[A-Da-d][0-9$+\-./:]*[A-Da-d]$`)},
	CODABAR_B: {"CODABAR_B", 71, regexp.MustCompile(`^[A-Da-d][0-9$+\-./:]*[A-Da-d]$`)},
	CODE93:    {"CODE93", 72, regexp.MustCompile(`^[\x00-\x7F]+$`)},
	CODE128:   {"CODE128", 73, regexp.MustCompile(`^\{[A-C][\x00-\x7F]+$`)},
}

// Systems returns every supported symbology in table order
func Systems() []System {
	all := make([]System, len(symbologies))
	for i := range symbologies {
		all[i] = System(i)
	}
	return all
}

// Valid reports whether s is one of the enumerated symbologies
func (s System) Valid() bool {
	return s >= 0 && int(s) < len(symbologies)
}

func (s System) String() string {
	if !s.Valid() {
		return fmt.Sprintf("System(%d)", int(s))
	}
	return symbologies[s].name
}

// Code returns the GS k m operand
func (s System) Code() byte {
	if !s.Valid() {
		return 0
	}
	return symbologies[s].code
}

// Framing derives the payload framing from the protocol code
func (s System) Framing() Framing {
	if s.Code() <= lastNullTerminatedCode {
		return NullTerminated
	}
	return LengthPrefixed
}

// Pattern returns the anchored grammar payloads must match
func (s System) Pattern() *regexp.Regexp {
	if !s.Valid() {
		return nil
	}
	return symbologies[s].pattern
}

// Lookup returns the protocol code, payload grammar and framing of s.
// ok is false only for values outside the enumerated set.
func Lookup(s System) (code byte, pattern *regexp.Regexp, framing Framing, ok bool) {
	if !s.Valid() {
		return 0, nil, 0, false
	}
	return s.Code(), s.Pattern(), s.Framing(), true
}

// ParseSystem resolves a symbology by name, case-insensitively.
// "CODE93_DEFAULT" and "UPCA_A" are accepted as aliases.
func ParseSystem(name string) (System, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch n {
	case "CODE93_DEFAULT":
		return CODE93, nil
	case "UPCA_A":
		return UPCA, nil
	}
	for i, sym := range symbologies {
		if sym.name == n {
			return System(i), nil
		}
	}
	return CODE93, fmt.Errorf("%w: unknown bar-code system %q", escpos.ErrInvalidConfiguration, name)
}
