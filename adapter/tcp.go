package adapter

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TCPAdapter talks to a network printer on its raw port, usually 9100
type TCPAdapter struct {
	address string
	timeout time.Duration
	conn    net.Conn
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewTCPAdapter creates an adapter for the printer at address.
// A zero timeout disables dial and write deadlines.
func NewTCPAdapter(address string, timeout time.Duration, logger *zap.Logger) *TCPAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TCPAdapter{
		address: address,
		timeout: timeout,
		logger:  logger.With(zap.String("printer", address)),
	}
}

// Open dials the printer
func (a *TCPAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return errors.New("device already open")
	}

	conn, err := net.DialTimeout("tcp", a.address, a.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to printer: %w", err)
	}
	a.conn = conn
	a.logger.Info("Network printer connected")
	return nil
}

// Write sends data to the printer
func (a *TCPAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return 0, errors.New("device not open")
	}

	if a.timeout > 0 {
		if err := a.conn.SetWriteDeadline(time.Now().Add(a.timeout)); err != nil {
			return 0, fmt.Errorf("write failed: %w", err)
		}
	}

	n, err := a.conn.Write(data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	a.logger.Debug("Wrote to network printer", zap.Int("bytes", n))
	return n, nil
}

// Read reads status bytes sent back by the printer
func (a *TCPAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return 0, errors.New("device not open")
	}

	if a.timeout > 0 {
		if err := a.conn.SetReadDeadline(time.Now().Add(a.timeout)); err != nil {
			return 0, fmt.Errorf("read failed: %w", err)
		}
	}

	n, err := a.conn.Read(buf)
	if err != nil {
		return n, fmt.Errorf("read failed: %w", err)
	}
	return n, nil
}

// Close closes the connection. Closing a closed adapter is a no-op.
func (a *TCPAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}

	err := a.conn.Close()
	a.conn = nil
	a.logger.Info("Network printer disconnected")
	return err
}

// IsOpen returns whether the connection is open
func (a *TCPAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn != nil
}

// Address returns the printer address
func (a *TCPAdapter) Address() string {
	return a.address
}
