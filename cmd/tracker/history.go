package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anystockai/tracker/internal/logger"
	"github.com/spf13/cobra"
)

var (
	historyJSON   bool
	historyPrices bool
)

var historyCmd = &cobra.Command{
	Use:   "history SYMBOL",
	Short: "Show the signal history for a symbol",
	Long: `Show the signal history for a symbol. With --prices, show one year of
daily price bars from the configured price source instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print as JSON")
	historyCmd.Flags().BoolVar(&historyPrices, "prices", false, "show price bars instead of signals")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	c := buildComponents(cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout+5*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	if historyPrices {
		if err := c.app.FetchPrices(ctx, args[0]); err != nil {
			return fmt.Errorf("fetching prices: %w", err)
		}
		prices := c.app.Snapshot().Prices
		if historyJSON {
			return printJSON(out, prices)
		}
		return printPrices(out, prices)
	}

	if err := c.app.FetchHistory(ctx, args[0]); err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	history := c.app.Snapshot().History
	if historyJSON {
		return printJSON(out, history)
	}
	return printHistory(out, history)
}
