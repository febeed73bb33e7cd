// Package adapter delivers encoded ESC/POS bytes to a printer.
package adapter

import "io"

// Adapter is a connection to one printer
type Adapter interface {
	io.ReadWriteCloser

	// Open opens the connection to the printer
	Open() error

	// IsOpen returns whether the connection is open
	IsOpen() bool
}
