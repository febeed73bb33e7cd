package adapter

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/escpos-encoder/barcode"
	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// fakePrinter accepts one connection and returns everything it receives
func fakePrinter(t *testing.T) (string, <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(received)
			return
		}
		defer conn.Close()
		conn.Write([]byte{0x12})
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	return ln.Addr().String(), received
}

func TestTCPAdapter(t *testing.T) {
	address, received := fakePrinter(t)
	adapter := NewTCPAdapter(address, time.Second, nil)
	assert.Equal(t, address, adapter.Address())
	assert.False(t, adapter.IsOpen())

	_, err := adapter.Write([]byte{0x1B, 0x40})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not open")

	require.NoError(t, adapter.Open())
	assert.True(t, adapter.IsOpen())

	err = adapter.Open()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already open")

	status := make([]byte, 1)
	n, err := adapter.Read(status)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0x12), status[0])

	enc := barcode.New().SetSystem(barcode.JAN8_A)
	want, err := enc.Encode("4901234")
	require.NoError(t, err)

	n, err = escpos.Write[string](adapter, enc, "4901234")
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	require.NoError(t, adapter.Close())
	assert.False(t, adapter.IsOpen())
	assert.NoError(t, adapter.Close())

	select {
	case got := <-received:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("printer did not receive data")
	}
}

func TestTCPAdapterUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := ln.Addr().String()
	ln.Close()

	adapter := NewTCPAdapter(address, 200*time.Millisecond, nil)
	err = adapter.Open()
	assert.Error(t, err)
	assert.False(t, adapter.IsOpen())
}
