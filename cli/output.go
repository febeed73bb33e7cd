package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

// outputOptions are shared by the commands that produce ESC/POS bytes
type outputOptions struct {
	hex   bool
	print bool
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.hex, "hex", false, "write a hex dump instead of raw bytes")
	cmd.Flags().BoolVarP(&o.print, "print", "p", false, "send the bytes to the configured printer")
}

// emit encodes in with enc and delivers the result to stdout or the printer.
// Encoding happens before any output is opened.
func emit[T any](cmd *cobra.Command, root *rootOptions, out *outputOptions, enc escpos.Encoder[T], in T) error {
	data, err := enc.Encode(in)
	if err != nil {
		return err
	}

	if !out.print {
		return writeBytes(cmd.OutOrStdout(), data, out.hex)
	}

	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	device, err := newAdapter(cfg.Printer, logger)
	if err != nil {
		return err
	}
	defer device.Close()

	if err := device.Open(); err != nil {
		return fmt.Errorf("failed to open printer: %w", err)
	}
	n, err := device.Write(data)
	if err != nil {
		return err
	}
	logger.Info("Sent to printer", zap.Int("bytes", n))
	return nil
}

func writeBytes(w io.Writer, data []byte, dump bool) error {
	if dump {
		_, err := io.WriteString(w, hex.Dump(data))
		return err
	}
	_, err := w.Write(data)
	return err
}
