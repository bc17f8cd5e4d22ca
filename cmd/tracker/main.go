package main

import (
	"fmt"
	"os"

	"github.com/anystockai/tracker/internal/app"
	"github.com/anystockai/tracker/internal/backend"
	"github.com/anystockai/tracker/internal/collector/yahoo"
	"github.com/anystockai/tracker/internal/config"
	"github.com/anystockai/tracker/internal/logger"
	"github.com/anystockai/tracker/internal/metrics"
	"github.com/anystockai/tracker/internal/refdata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "AnyStockAI ASX Tracker",
	Long: `tracker displays buy/sell/hold signals for ASX-listed symbols.
Signals, signal history and live updates come from the AnyStockAI backend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, or the defaults when no file is given, and
// validates the result.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// components is everything a command needs to talk to the backend.
type components struct {
	cfg     *config.Config
	backend *backend.Client
	app     *app.App
	data    *refdata.Data
	metrics *metrics.Registry
}

func buildComponents(cfg *config.Config, log *zap.Logger) *components {
	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, logger.Component(log, "backend"))
	data := refdata.LoadEmbedded()

	a := app.New(cfg, client, data.Symbols, logger.Component(log, "app"))
	a.RegisterPriceSource(client)
	a.RegisterPriceSource(yahoo.New())

	c := &components{cfg: cfg, backend: client, app: a, data: data}
	if cfg.Metrics.Enabled {
		c.metrics = metrics.NewRegistry()
		client.SetRecorder(c.metrics)
		a.SetRecorder(c.metrics)
	}
	return c
}
