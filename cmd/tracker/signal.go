package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anystockai/tracker/internal/logger"
	"github.com/spf13/cobra"
)

var signalJSON bool

var signalCmd = &cobra.Command{
	Use:   "signal SYMBOL",
	Short: "Fetch the current signal for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignal,
}

func init() {
	signalCmd.Flags().BoolVar(&signalJSON, "json", false, "print the signal as JSON")
	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	c := buildComponents(cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout+5*time.Second)
	defer cancel()

	if err := c.app.FetchSignal(ctx, args[0]); err != nil {
		return fmt.Errorf("fetching signal: %w", err)
	}

	sig := c.app.Snapshot().Signal
	if signalJSON {
		return printJSON(cmd.OutOrStdout(), sig)
	}
	printSignal(cmd.OutOrStdout(), sig)
	return nil
}
