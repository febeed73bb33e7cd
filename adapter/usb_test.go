package adapter

import (
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-encoder/barcode"
	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

func TestPrinterInterface(t *testing.T) {
	testCases := []struct {
		name string
		desc *gousb.DeviceDesc
		want int
	}{
		{"NilDesc", nil, -1},
		{"NoConfigs", &gousb.DeviceDesc{}, -1},
		{
			"HID",
			&gousb.DeviceDesc{Configs: map[int]gousb.ConfigDesc{
				1: {Interfaces: []gousb.InterfaceDesc{
					{Number: 0, AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassHID}}},
				}},
			}},
			-1,
		},
		{
			"PrinterOnSecondInterface",
			&gousb.DeviceDesc{Configs: map[int]gousb.ConfigDesc{
				1: {Interfaces: []gousb.InterfaceDesc{
					{Number: 0, AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassHID}}},
					{Number: 1, AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassPrinter}}},
				}},
			}},
			1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, printerInterface(tc.desc))
		})
	}
}

func TestIsPrinterNil(t *testing.T) {
	assert.False(t, IsPrinter(nil))
}

func TestFindPrinters(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	printers := FindPrinters(ctx, zap.NewNop())
	if len(printers) == 0 {
		t.Skip("No USB printers found")
	}

	t.Logf("Found %d printer(s)", len(printers))
	for _, printer := range printers {
		assert.True(t, IsPrinter(printer))
		printer.Close()
	}
}

func TestGetDeviceBySerialMissing(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	_, err := GetDeviceBySerial(ctx, "INVALID_SERIAL_NUMBER")
	assert.Error(t, err)
}

func TestUSBAdapterOpenClose(t *testing.T) {
	adapter, err := NewUSBAdapter(USBConfig{}, zap.NewNop())
	if err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer adapter.Close()

	assert.False(t, adapter.IsOpen())
	assert.NotNil(t, adapter.GetDevice())

	_, err = adapter.Write([]byte{0x1B, 0x40})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not open")

	require.NoError(t, adapter.Open())
	assert.True(t, adapter.IsOpen())

	err = adapter.Open()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already open")

	require.NoError(t, adapter.Close())
	assert.False(t, adapter.IsOpen())
	assert.NoError(t, adapter.Close())
}

func TestUSBAdapterPrintBarcode(t *testing.T) {
	adapter, err := NewUSBAdapter(USBConfig{}, zap.NewNop())
	if err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer adapter.Close()
	require.NoError(t, adapter.Open())

	enc := barcode.New().SetSystem(barcode.CODE39_A).SetHRIPosition(barcode.Below)
	n, err := escpos.Write[string](adapter, enc, "ADAPTER TEST")
	require.NoError(t, err)
	assert.Positive(t, n)
}
