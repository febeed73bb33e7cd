package barcode

import (
	"testing"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemTable(t *testing.T) {
	codes := map[System]byte{
		UPCA: 0, UPCE_A: 1, JAN13_A: 2, JAN8_A: 3, CODE39_A: 4, ITF_A: 5, CODABAR_A: 6,
		UPCA_B: 65, UPCE_B: 66, JAN13_B: 67, JAN8_B: 68, CODE39_B: 69, ITF_B: 70,
		CODABAR_B: 71, CODE93: 72, CODE128: 73,
	}
	require.Len(t, Systems(), len(codes))

	for system, code := range codes {
		t.Run(system.String(), func(t *testing.T) {
			got, pattern, framing, ok := Lookup(system)
			require.True(t, ok)
			assert.Equal(t, code, got)
			assert.NotNil(t, pattern)
			if code <= 6 {
				assert.Equal(t, NullTerminated, framing)
			} else {
				assert.Equal(t, LengthPrefixed, framing)
			}
		})
	}
}

func TestSharedFamilyKeepsDistinctEntries(t *testing.T) {
	assert.Equal(t, UPCE_A.Pattern().String(), UPCE_B.Pattern().String())
	assert.NotSame(t, UPCE_A.Pattern(), UPCE_B.Pattern())
	assert.NotEqual(t, UPCE_A.Code(), UPCE_B.Code())
}

func TestPatternsAreAnchored(t *testing.T) {
	assert.False(t, UPCA.Pattern().MatchString("1234567890123"))
	assert.False(t, UPCA.Pattern().MatchString("x12345678901"))
	assert.False(t, JAN8_A.Pattern().MatchString("1234567 "))
	assert.True(t, UPCE_A.Pattern().MatchString("00123456789"))
	assert.False(t, UPCE_A.Pattern().MatchString("10123456789"))
}

func TestLookupUnknown(t *testing.T) {
	_, pattern, _, ok := Lookup(System(-1))
	assert.False(t, ok)
	assert.Nil(t, pattern)
	assert.False(t, System(len(Systems())).Valid())
	assert.Equal(t, "System(42)", System(42).String())
}

func TestParseSystem(t *testing.T) {
	testCases := []struct {
		in   string
		want System
	}{
		{"UPCA", UPCA},
		{"upca_a", UPCA},
		{"code128", CODE128},
		{"CODE93_Default", CODE93},
		{" codabar_b ", CODABAR_B},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSystem(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseSystem("QR")
	assert.ErrorIs(t, err, escpos.ErrInvalidConfiguration)
}

func TestParseHRI(t *testing.T) {
	pos, err := ParseHRIPosition("Below")
	require.NoError(t, err)
	assert.Equal(t, Below, pos)
	assert.Equal(t, byte(50), byte(pos))

	pos, err = ParseHRIPosition("both")
	require.NoError(t, err)
	assert.Equal(t, AboveAndBelow, pos)

	_, err = ParseHRIPosition("left")
	assert.ErrorIs(t, err, escpos.ErrInvalidConfiguration)

	font, err := ParseHRIFont("c")
	require.NoError(t, err)
	assert.Equal(t, FontC, font)
	assert.Equal(t, byte(50), byte(font))

	_, err = ParseHRIFont("D")
	assert.ErrorIs(t, err, escpos.ErrInvalidConfiguration)
}
