package backend

import (
	"testing"

	"github.com/anystockai/tracker/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestParseSignal_NonObjectBodies(t *testing.T) {
	for _, body := range []string{``, `not json`, `[1,2,3]`, `"BHP"`, `null`, `{"symbol":`} {
		assert.Equal(t, core.Signal{}, ParseSignal([]byte(body)), "body %q", body)
	}
}

func TestParseSignal_WrongTypedFieldsAreAbsent(t *testing.T) {
	sig := ParseSignal([]byte(`{"symbol":"NAB","confidence":"high","current_price":{"v":1},"open_price":"31.5","high_price":true}`))

	assert.Equal(t, "NAB", sig.Symbol)
	assert.Nil(t, sig.Confidence)
	assert.Nil(t, sig.CurrentPrice)
	assert.Nil(t, sig.HighPrice)
	assert.Equal(t, "31.5", core.FormatFloat(sig.OpenPrice))
}

func TestParseSignal_Truthiness(t *testing.T) {
	sig := ParseSignal([]byte(`{"buy_signal":1,"sell_signal":0,"hold_signal":"yes"}`))
	assert.True(t, sig.BuySignal)
	assert.False(t, sig.SellSignal)
	assert.True(t, sig.HoldSignal)

	sig = ParseSignal([]byte(`{"buy_signal":null,"sell_signal":"","hold_signal":false}`))
	assert.False(t, sig.BuySignal)
	assert.False(t, sig.SellSignal)
	assert.False(t, sig.HoldSignal)
}

func TestParseSignalHistory_Coercion(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing history key", `{"symbol":"BHP"}`, 0},
		{"history is object", `{"history":{"symbol":"BHP"}}`, 0},
		{"history is null", `{"history":null}`, 0},
		{"history is string", `{"history":"none"}`, 0},
		{"top level array", `[{"symbol":"BHP"}]`, 0},
		{"invalid json", `{"history":[`, 0},
		{"empty array", `{"history":[]}`, 0},
		{"mixed elements", `{"history":[{"symbol":"BHP"},42,null]}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSignalHistory([]byte(tt.body))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseSignalHistory_NonObjectElementsAreEmptyRecords(t *testing.T) {
	got := ParseSignalHistory([]byte(`{"history":[{"symbol":"BHP","current_price":45},7]}`))
	assert.Equal(t, "BHP", got[0].Symbol)
	assert.Equal(t, core.HistoryRecord{}, got[1])
}

func TestParsePriceHistory_MissingKey(t *testing.T) {
	got := ParsePriceHistory([]byte(`{"symbol":"BHP","data":[]}`))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParsePriceHistory_NullValues(t *testing.T) {
	got := ParsePriceHistory([]byte(`{"history":[{"timestamp":"2024-05-01","open":null,"close":12.5}]}`))
	assert.Len(t, got, 1)
	assert.Equal(t, "N/A", core.FormatFloat(got[0].Open))
	assert.Equal(t, "12.5", core.FormatFloat(got[0].Close))
	assert.Equal(t, "N/A", core.FormatFloat(got[0].Volume))
}
