// Package cli wires the encoders, the job server and the printer adapters
// into the escposd command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-encoder/adapter"
	"github.com/nixxel-company-limited/escpos-encoder/config"
	"github.com/nixxel-company-limited/escpos-encoder/logging"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0-dev"

type rootOptions struct {
	configFile string
}

// NewRootCommand builds the escposd command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "escposd",
		Short: "Encode bar-codes and images into ESC/POS and print them",
		Long: `escposd turns bar-code and image print requests into ESC/POS command
bytes. It can write them to stdout, send them to a USB or network printer,
or run a TCP job server that accepts JSON print jobs.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file path")

	cmd.AddCommand(
		newServeCommand(opts),
		newBarcodeCommand(opts),
		newImageCommand(opts),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the command tree and exits non-zero on error.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the configuration and builds the logger
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newAdapter creates the printer adapter selected by cfg
func newAdapter(cfg config.PrinterConfig, logger *zap.Logger) (adapter.Adapter, error) {
	switch cfg.Kind {
	case config.PrinterTCP:
		return adapter.NewTCPAdapter(cfg.Address, cfg.Timeout, logger), nil
	case config.PrinterUSB:
		usb, err := adapter.NewUSBAdapter(adapter.USBConfig{
			VendorID:  cfg.VendorID,
			ProductID: cfg.ProductID,
			Serial:    cfg.Serial,
			Timeout:   cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return usb, nil
	}
	return nil, fmt.Errorf("unsupported printer kind %q", cfg.Kind)
}
