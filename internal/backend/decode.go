package backend

import (
	"strconv"

	"github.com/anystockai/tracker/internal/core"
	"github.com/tidwall/gjson"
)

func isJSON(body []byte) bool {
	return gjson.ValidBytes(body)
}

// ParseSignal reads a Signal out of a JSON object. Anything that is not a
// JSON object produces a Signal with every field absent.
func ParseSignal(body []byte) core.Signal {
	if !isJSON(body) {
		return core.Signal{}
	}
	r := gjson.ParseBytes(body)
	if !r.IsObject() {
		return core.Signal{}
	}
	return signalFrom(r)
}

// ParseSignalHistory extracts the "history" array. A missing key, a
// non-array value or an invalid body all yield an empty slice.
func ParseSignalHistory(body []byte) []core.HistoryRecord {
	records := []core.HistoryRecord{}
	for _, item := range historyItems(body) {
		var rec core.HistoryRecord
		if item.IsObject() {
			rec.Signal = signalFrom(item)
		}
		records = append(records, rec)
	}
	return records
}

// ParsePriceHistory extracts the "history" array of price bars.
func ParsePriceHistory(body []byte) []core.PriceBar {
	bars := []core.PriceBar{}
	for _, item := range historyItems(body) {
		var bar core.PriceBar
		if item.IsObject() {
			bar = core.PriceBar{
				Timestamp: text(item.Get("timestamp")),
				Open:      number(item.Get("open")),
				High:      number(item.Get("high")),
				Low:       number(item.Get("low")),
				Close:     number(item.Get("close")),
				Volume:    number(item.Get("volume")),
			}
		}
		bars = append(bars, bar)
	}
	return bars
}

func historyItems(body []byte) []gjson.Result {
	if !isJSON(body) {
		return nil
	}
	r := gjson.ParseBytes(body)
	if !r.IsObject() {
		return nil
	}
	h := r.Get("history")
	if !h.IsArray() {
		return nil
	}
	return h.Array()
}

func signalFrom(r gjson.Result) core.Signal {
	return core.Signal{
		Symbol:       text(r.Get("symbol")),
		BuySignal:    truthy(r.Get("buy_signal")),
		SellSignal:   truthy(r.Get("sell_signal")),
		HoldSignal:   truthy(r.Get("hold_signal")),
		Confidence:   number(r.Get("confidence")),
		Timestamp:    text(r.Get("timestamp")),
		CurrentPrice: number(r.Get("current_price")),
		OpenPrice:    number(r.Get("open_price")),
		HighPrice:    number(r.Get("high_price")),
		LowPrice:     number(r.Get("low_price")),
	}
}

// number accepts JSON numbers and numeric strings; everything else is absent.
func number(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		return core.Float(r.Num)
	case gjson.String:
		if v, err := strconv.ParseFloat(r.Str, 64); err == nil {
			return core.Float(v)
		}
	}
	return nil
}

func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	}
	return ""
}

// truthy follows JSON-consumer truthiness: non-zero numbers, non-empty
// strings, objects and arrays count as set.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	}
	return false
}
