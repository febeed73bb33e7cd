package adapter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// IfaceClassPrinter is the USB interface class of printers.
// Reference: http://www.usb.org/developers/defined_class
const IfaceClassPrinter = 0x07

// USBConfig selects the printer to open. With zero IDs and no serial the
// first printer found is used.
type USBConfig struct {
	VendorID  uint16
	ProductID uint16
	Serial    string
	Timeout   time.Duration
}

// USBAdapter writes to the bulk-out endpoint of a USB printer
type USBAdapter struct {
	cfg         USBConfig
	ctx         *gousb.Context
	device      *gousb.Device
	iface       *gousb.Interface
	done        func()
	outEndpoint *gousb.OutEndpoint
	inEndpoint  *gousb.InEndpoint
	logger      *zap.Logger
	isOpen      bool
	mu          sync.Mutex
}

// NewUSBAdapter locates the printer described by cfg
func NewUSBAdapter(cfg USBConfig, logger *zap.Logger) (*USBAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := gousb.NewContext()

	var (
		device *gousb.Device
		err    error
	)
	switch {
	case cfg.Serial != "":
		device, err = GetDeviceBySerial(ctx, cfg.Serial)
	case cfg.VendorID != 0 || cfg.ProductID != 0:
		device, err = GetDeviceByVIDPID(ctx, cfg.VendorID, cfg.ProductID)
	default:
		devices := FindPrinters(ctx, logger)
		if len(devices) == 0 {
			err = errors.New("cannot find printer")
		} else {
			device = devices[0]
			for _, d := range devices[1:] {
				d.Close()
			}
		}
	}
	if err != nil {
		ctx.Close()
		return nil, err
	}

	logger.Info("USB printer selected",
		zap.Stringer("vendor", device.Desc.Vendor),
		zap.Stringer("product", device.Desc.Product),
	)

	return &USBAdapter{
		cfg:    cfg,
		ctx:    ctx,
		device: device,
		logger: logger,
	}, nil
}

// IsPrinter checks if a device exposes a printer interface
func IsPrinter(dev *gousb.Device) bool {
	if dev == nil {
		return false
	}
	return printerInterface(dev.Desc) >= 0
}

// printerInterface returns the number of the first printer interface in
// the active configuration, or -1
func printerInterface(desc *gousb.DeviceDesc) int {
	if desc == nil {
		return -1
	}
	for _, cfg := range desc.Configs {
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				if alt.Class == IfaceClassPrinter {
					return iface.Number
				}
			}
		}
	}
	return -1
}

// FindPrinters opens every USB printer on the bus
func FindPrinters(ctx *gousb.Context, logger *zap.Logger) []*gousb.Device {
	var printers []*gousb.Device

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return printerInterface(desc) >= 0
	})
	if err != nil {
		logger.Warn("USB enumeration incomplete", zap.Error(err))
	}

	for _, dev := range devices {
		logger.Debug("Found printer", zap.String("device", dev.String()))
		printers = append(printers, dev)
	}

	return printers
}

// GetDeviceByVIDPID opens a device by VID and PID
func GetDeviceByVIDPID(ctx *gousb.Context, vid, pid uint16) (*gousb.Device, error) {
	device, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, fmt.Errorf("device %04x:%04x not found", vid, pid)
	}
	return device, nil
}

// GetDeviceBySerial opens a device by serial number
func GetDeviceBySerial(ctx *gousb.Context, serial string) (*gousb.Device, error) {
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true
	})
	if err != nil && len(devices) == 0 {
		return nil, err
	}

	var found *gousb.Device
	for _, dev := range devices {
		if found == nil {
			if s, err := dev.SerialNumber(); err == nil && s == serial {
				found = dev
				continue
			}
		}
		dev.Close()
	}

	if found == nil {
		return nil, errors.New("device with serial number not found")
	}
	return found, nil
}

// Open claims the printer interface and its endpoints
func (a *USBAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return errors.New("device already open")
	}
	if a.device == nil {
		return errors.New("device not found")
	}

	if runtime.GOOS == "linux" {
		if err := a.device.SetAutoDetach(true); err != nil {
			a.logger.Warn("Kernel driver auto-detach unavailable", zap.Error(err))
		}
	}

	num := printerInterface(a.device.Desc)
	if num < 0 {
		return errors.New("no printer interface found")
	}

	cfgNum, err := a.device.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("failed to get active config: %w", err)
	}
	cfg, err := a.device.Config(cfgNum)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	iface, err := cfg.Interface(num, 0)
	if err != nil {
		cfg.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}
	done := func() {
		iface.Close()
		cfg.Close()
	}

	a.iface = iface
	a.done = done

	for _, ep := range iface.Setting.Endpoints {
		switch {
		case ep.Direction == gousb.EndpointDirectionOut && a.outEndpoint == nil:
			if out, err := iface.OutEndpoint(ep.Number); err == nil {
				a.outEndpoint = out
			}
		case ep.Direction == gousb.EndpointDirectionIn && a.inEndpoint == nil:
			if in, err := iface.InEndpoint(ep.Number); err == nil {
				a.inEndpoint = in
			}
		}
	}

	if a.outEndpoint == nil {
		a.release()
		return errors.New("cannot find output endpoint from printer")
	}

	a.isOpen = true
	a.logger.Info("USB printer opened", zap.Int("interface", num))
	return nil
}

// Write sends data to the bulk-out endpoint
func (a *USBAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, errors.New("device not open")
	}

	ctx, cancel := a.context()
	defer cancel()

	n, err := a.outEndpoint.WriteContext(ctx, data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	a.logger.Debug("Wrote to USB printer", zap.Int("bytes", n))
	return n, nil
}

// Read reads status bytes from the bulk-in endpoint, if the printer has one
func (a *USBAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, errors.New("device not open")
	}
	if a.inEndpoint == nil {
		return 0, errors.New("input endpoint not available")
	}

	ctx, cancel := a.context()
	defer cancel()

	n, err := a.inEndpoint.ReadContext(ctx, buf)
	if err != nil {
		return n, fmt.Errorf("read failed: %w", err)
	}
	return n, nil
}

// Close releases the interface, the device and the libusb context
func (a *USBAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx == nil {
		return nil
	}

	a.release()

	var errs []error
	if a.device != nil {
		if err := a.device.Close(); err != nil {
			errs = append(errs, err)
		}
		a.device = nil
	}
	if err := a.ctx.Close(); err != nil {
		errs = append(errs, err)
	}
	a.ctx = nil

	if a.isOpen {
		a.isOpen = false
		a.logger.Info("USB printer closed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}

// IsOpen returns whether the device is open
func (a *USBAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isOpen
}

// GetDevice returns the underlying USB device
func (a *USBAdapter) GetDevice() *gousb.Device {
	return a.device
}

func (a *USBAdapter) release() {
	if a.done != nil {
		a.done()
		a.done = nil
	}
	a.iface = nil
	a.outEndpoint = nil
	a.inEndpoint = nil
}

func (a *USBAdapter) context() (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), a.cfg.Timeout)
}
