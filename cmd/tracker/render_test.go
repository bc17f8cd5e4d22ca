package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anystockai/tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSignal_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	printSignal(&buf, &core.Signal{Symbol: "BHP", BuySignal: true, CurrentPrice: core.Float(45.2)})

	out := buf.String()
	assert.Contains(t, out, "Buy:           Yes")
	assert.Contains(t, out, "Sell:          No")
	assert.Contains(t, out, "Confidence:    N/A")
	assert.Contains(t, out, "Current Price: 45.2")
	assert.NotContains(t, out, "Timestamp")
}

func TestPrintRealtime(t *testing.T) {
	var buf bytes.Buffer
	printRealtime(&buf, core.Signal{Symbol: "CBA", SellSignal: true, Timestamp: "2025-01-01T00:00:00Z"})

	assert.Equal(t, "2025-01-01T00:00:00Z  CBA    buy=No sell=Yes confidence=N/A price=N/A\n", buf.String())
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Equal(t, "No signal history.\n", buf.String())

	buf.Reset()
	require.NoError(t, printHistory(&buf, []core.HistoryRecord{
		{Signal: core.Signal{Symbol: "BHP", Timestamp: "2025-01-01", Confidence: core.Float(0.5)}},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "SYMBOL"))
	assert.Equal(t, []string{"BHP", "2025-01-01", "No", "No", "0.5", "N/A", "N/A", "N/A", "N/A"}, strings.Fields(lines[1]))
}

func TestPrintPrices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPrices(&buf, []core.PriceBar{
		{Timestamp: "2025-01-02T00:00:00Z", Close: core.Float(46), Volume: core.Float(1200)},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"2025-01-02T00:00:00Z", "N/A", "N/A", "N/A", "46", "1200"}, strings.Fields(lines[1]))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, buf.String(), "tracker dev")
}
