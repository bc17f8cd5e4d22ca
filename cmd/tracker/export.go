package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anystockai/tracker/internal/logger"
	"github.com/anystockai/tracker/internal/storage/archive"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export SYMBOL...",
	Short: "Export signal history snapshots to the configured archive",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	c := buildComponents(cfg, log)

	store, err := archive.New(cfg.Archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	exporter := archive.NewExporter(store, cfg.Backend.URL)

	for _, symbol := range args {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout+30*time.Second)
		records, err := c.backend.FetchSignalHistory(ctx, symbol)
		if err != nil {
			cancel()
			return fmt.Errorf("fetching history for %s: %w", symbol, err)
		}

		path, err := exporter.Export(ctx, symbol, records)
		cancel()
		if err != nil {
			return fmt.Errorf("exporting %s: %w", symbol, err)
		}

		log.Info("exported signal history",
			zap.String("symbol", symbol),
			zap.Int("records", len(records)),
			zap.String("archive", cfg.Archive.Type),
			zap.String("path", path),
		)
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
