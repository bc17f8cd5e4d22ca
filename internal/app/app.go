// Package app holds the tracker's view state and the lifecycle of its push
// subscription.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/anystockai/tracker/internal/autocomplete"
	"github.com/anystockai/tracker/internal/collector"
	"github.com/anystockai/tracker/internal/config"
	"github.com/anystockai/tracker/internal/core"
	"github.com/anystockai/tracker/internal/stream"
	"go.uber.org/zap"
)

// SignalSource is the part of the backend the App fetches signals from.
type SignalSource interface {
	FetchSignal(ctx context.Context, symbol string) (*core.Signal, error)
	FetchSignalHistory(ctx context.Context, symbol string) ([]core.HistoryRecord, error)
}

// Recorder receives push-channel and autocomplete metrics.
type Recorder interface {
	stream.Recorder
	RecordSuggestions(n int)
}

// State is a point-in-time copy of what the dashboard shows.
type State struct {
	Ticker      string               `json:"ticker"`
	Suggestions []string             `json:"suggestions"`
	Signal      *core.Signal         `json:"signal"`
	Realtime    *core.Signal         `json:"realtime"`
	History     []core.HistoryRecord `json:"history"`
	Prices      []core.PriceBar      `json:"prices"`
	Streaming   bool                 `json:"streaming"`
}

// App is the tracker's view model. Fetches replace whole entities under the
// state lock; concurrent fetches are not de-duplicated, so the last one to
// complete wins.
type App struct {
	cfg         *config.Config
	logger      *zap.Logger
	backend     SignalSource
	prices      *collector.Registry
	priceSource string
	index       *autocomplete.Index
	recorder    Recorder
	onRealtime  func(core.Signal)

	mu    sync.RWMutex
	state State

	lifecycle sync.Mutex
	running   bool
	sub       *stream.Subscriber
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates an App over backend with the given autocomplete symbol list.
func New(cfg *config.Config, backend SignalSource, symbols []string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}
	priceSource := cfg.Prices.Source
	if priceSource == "" {
		priceSource = "backend"
	}
	return &App{
		cfg:         cfg,
		logger:      logger,
		backend:     backend,
		prices:      collector.NewRegistry(),
		priceSource: priceSource,
		index:       autocomplete.NewIndex(symbols),
		state: State{
			Suggestions: []string{},
			History:     []core.HistoryRecord{},
			Prices:      []core.PriceBar{},
		},
	}
}

// RegisterPriceSource adds a price source, selectable by its name.
func (a *App) RegisterPriceSource(s collector.PriceSource) {
	a.prices.Register(s)
}

// PriceSources lists the registered price source names.
func (a *App) PriceSources() []string {
	return a.prices.Names()
}

// SetRecorder attaches a metrics recorder. Call before Start.
func (a *App) SetRecorder(r Recorder) {
	a.recorder = r
}

// OnRealtime registers fn to be called after each applied push message.
// Call before Start.
func (a *App) OnRealtime(fn func(core.Signal)) {
	a.onRealtime = fn
}

// Start mounts the push subscription. It returns once the subscription
// goroutine is launched; the connection itself is not retried if it fails.
func (a *App) Start(ctx context.Context) error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	if a.running {
		return fmt.Errorf("app already running")
	}

	if !a.cfg.Stream.Enabled {
		a.running = true
		a.logger.Info("push channel disabled")
		return nil
	}

	wsURL, err := stream.URL(a.cfg.Backend.URL)
	if err != nil {
		return err
	}
	sub := stream.NewSubscriber(wsURL, a.cfg.Stream.HandshakeTimeout, a.applyRealtime, a.logger.Named("stream"))
	if a.recorder != nil {
		sub.SetRecorder(a.recorder)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sub.Run(ctx); err != nil {
			a.logger.Warn("push channel closed, live updates stopped",
				zap.String("url", wsURL),
				zap.Error(err),
			)
		}
	}()

	a.running = true
	a.sub = sub
	a.cancel = cancel
	a.done = done
	a.logger.Info("tracker started", zap.String("stream_url", wsURL))
	return nil
}

// Stop unmounts the push subscription and waits for it to finish.
func (a *App) Stop() {
	a.lifecycle.Lock()
	cancel, done := a.cancel, a.done
	a.running = false
	a.sub = nil
	a.cancel = nil
	a.done = nil
	a.lifecycle.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Done is closed when the current subscription ends. It is nil when no
// subscription is mounted.
func (a *App) Done() <-chan struct{} {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	return a.done
}

func (a *App) applyRealtime(sig core.Signal) {
	a.mu.Lock()
	a.state.Realtime = &sig
	a.mu.Unlock()

	if a.onRealtime != nil {
		a.onRealtime(sig)
	}
}

// SetTicker records the input text and recomputes suggestions for it.
func (a *App) SetTicker(input string) []string {
	suggestions := a.Suggest(input)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Ticker = input
	a.state.Suggestions = suggestions
	return append([]string(nil), suggestions...)
}

// Select makes symbol the active ticker and clears the suggestion list.
func (a *App) Select(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Ticker = symbol
	a.state.Suggestions = []string{}
}

// Suggest returns ranked symbol suggestions for input without touching the
// view state.
func (a *App) Suggest(input string) []string {
	suggestions := a.index.Suggest(input)
	if a.recorder != nil {
		a.recorder.RecordSuggestions(len(suggestions))
	}
	return suggestions
}

// FetchSignal fetches the point-in-time signal for symbol and displays it.
// On a transport failure the previous signal is kept and the error returned.
func (a *App) FetchSignal(ctx context.Context, symbol string) error {
	a.setTickerOnly(symbol)

	sig, err := a.backend.FetchSignal(ctx, symbol)
	if err != nil {
		a.logger.Warn("signal fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return err
	}

	a.mu.Lock()
	a.state.Signal = sig
	a.mu.Unlock()
	return nil
}

// FetchHistory fetches signal history for symbol. Malformed payloads arrive
// as an empty slice and clear the table.
func (a *App) FetchHistory(ctx context.Context, symbol string) error {
	a.setTickerOnly(symbol)

	records, err := a.backend.FetchSignalHistory(ctx, symbol)
	if err != nil {
		a.logger.Warn("history fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	if records == nil {
		records = []core.HistoryRecord{}
	}

	a.mu.Lock()
	a.state.History = records
	a.mu.Unlock()
	return nil
}

// FetchPrices fetches price bars for symbol from the configured source.
func (a *App) FetchPrices(ctx context.Context, symbol string) error {
	a.setTickerOnly(symbol)

	source, ok := a.prices.Get(a.priceSource)
	if !ok {
		err := core.WrapError(core.ErrCollectorFailed, fmt.Errorf("price source %q not registered", a.priceSource))
		a.logger.Warn("price fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return err
	}

	bars, err := source.FetchPriceHistory(ctx, symbol)
	if err != nil {
		a.logger.Warn("price fetch failed",
			zap.String("symbol", symbol),
			zap.String("source", source.Name()),
			zap.Error(err),
		)
		return err
	}
	if bars == nil {
		bars = []core.PriceBar{}
	}

	a.mu.Lock()
	a.state.Prices = bars
	a.mu.Unlock()
	return nil
}

func (a *App) setTickerOnly(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Ticker = symbol
}

// Snapshot returns a copy of the view state.
func (a *App) Snapshot() State {
	a.mu.RLock()
	s := State{
		Ticker:      a.state.Ticker,
		Suggestions: append([]string{}, a.state.Suggestions...),
		Signal:      copySignal(a.state.Signal),
		Realtime:    copySignal(a.state.Realtime),
		History:     append([]core.HistoryRecord{}, a.state.History...),
		Prices:      append([]core.PriceBar{}, a.state.Prices...),
	}
	a.mu.RUnlock()

	s.Streaming = a.streaming()
	return s
}

// Realtime returns the latest pushed signal, or nil if none arrived.
func (a *App) Realtime() *core.Signal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copySignal(a.state.Realtime)
}

func (a *App) streaming() bool {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	return a.sub != nil && a.sub.Connected()
}

// GetStats returns application statistics
func (a *App) GetStats() map[string]any {
	a.lifecycle.Lock()
	running := a.running
	a.lifecycle.Unlock()

	return map[string]any{
		"running":       running,
		"streaming":     a.streaming(),
		"symbols":       a.index.Len(),
		"price_source":  a.priceSource,
		"price_sources": a.prices.Names(),
		"backend":       a.cfg.Backend.URL,
	}
}

func copySignal(s *core.Signal) *core.Signal {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
