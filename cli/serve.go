package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-encoder/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the print job server",
		Long: `Listen for newline-delimited JSON print jobs and forward the encoded
ESC/POS bytes to the configured printer. Every job is answered with a JSON
reply line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if address != "" {
				cfg.Server.Address = address
			}

			device, err := newAdapter(cfg.Printer, logger)
			if err != nil {
				return err
			}
			defer device.Close()

			svr := server.New(device, cfg.Server.Address,
				server.WithLogger(logger),
				server.WithIdleTimeout(cfg.Server.IdleTimeout),
				server.WithMaxJobSize(cfg.Server.MaxJobSize),
				server.WithMaxImagePixels(cfg.Server.MaxImagePixels),
			)

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(signals)
			return serve(svr, signals, logger)
		},
	}

	cmd.Flags().StringVarP(&address, "listen", "l", "", "address to listen on (overrides server.address)")
	return cmd
}

// serve runs svr until a signal arrives and returns once Stop has finished
// closing connections and the adapter.
func serve(svr *server.Server, signals <-chan os.Signal, logger *zap.Logger) error {
	stopped := make(chan error, 1)
	go func() {
		sig := <-signals
		logger.Info("Shutting down", zap.Stringer("signal", sig))
		stopped <- svr.Stop()
	}()

	if err := svr.Start(); err != nil {
		return err
	}
	if err := <-stopped; err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
