package core

import (
	"strconv"
	"time"
)

// Placeholder is rendered in place of any absent value.
const Placeholder = "N/A"

// Signal is the point-in-time trading signal for one symbol, as returned by
// the backend's predict endpoint and pushed over the signal channel.
type Signal struct {
	Symbol       string   `json:"symbol"`
	BuySignal    bool     `json:"buy_signal"`
	SellSignal   bool     `json:"sell_signal"`
	HoldSignal   bool     `json:"hold_signal"`
	Confidence   *float64 `json:"confidence"`
	Timestamp    string   `json:"timestamp,omitempty"`
	CurrentPrice *float64 `json:"current_price"`
	OpenPrice    *float64 `json:"open_price"`
	HighPrice    *float64 `json:"high_price"`
	LowPrice     *float64 `json:"low_price"`
}

// HistoryRecord is a stored signal for one symbol.
type HistoryRecord struct {
	Signal
}

// PriceBar is one daily OHLCV bar from a market-data source.
type PriceBar struct {
	Timestamp string   `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

// HoldingEntry is one line of a fund's quarterly 13F disclosure.
type HoldingEntry struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Shares         *float64 `json:"shares"`
	PercentOfTotal *float64 `json:"percent"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// FormatFloat renders an optional number, or the placeholder when absent.
func FormatFloat(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatText renders an optional string, or the placeholder when empty.
func FormatText(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// YesNo renders a signal flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// BarTimestamp formats a bar time the way the backend does.
func BarTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
