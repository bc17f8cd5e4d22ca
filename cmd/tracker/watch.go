package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/anystockai/tracker/internal/core"
	"github.com/anystockai/tracker/internal/logger"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live signal updates as they are pushed",
	Long: `Subscribe to the backend's signal channel and print each update.
The subscription is not re-established if the connection drops.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	cfg.Stream.Enabled = true
	c := buildComponents(cfg, log)

	out := cmd.OutOrStdout()
	c.app.OnRealtime(func(s core.Signal) {
		printRealtime(out, s)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.app.Start(ctx); err != nil {
		return fmt.Errorf("starting subscription: %w", err)
	}
	defer c.app.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-c.app.Done():
		return fmt.Errorf("signal channel closed: %w", core.ErrStreamClosed)
	}
}
