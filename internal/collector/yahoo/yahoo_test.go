package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anystockai/tracker/internal/collector"
	"github.com/anystockai/tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYahoo_ImplementsPriceSource(t *testing.T) {
	var _ collector.PriceSource = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New()
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
}

func TestYahoo_ToYahooSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BHP", "BHP.AX"},
		{"bhp", "BHP.AX"},
		{"CBA.AX", "CBA.AX"},
		{"a2m", "A2M.AX"},
	}

	y := New()
	for _, tc := range tests {
		got := y.toYahooSymbol(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooSymbol(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, validateSymbol("BHP"))
	assert.NoError(t, validateSymbol("BHP.AX"))
	assert.Error(t, validateSymbol(""))
	assert.Error(t, validateSymbol("BHP/../x"))
	assert.Error(t, validateSymbol("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
}

func TestYahoo_FetchPriceHistory(t *testing.T) {
	var gotPath, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1714521600,1714608000],
			"indicators":{"quote":[{
				"open":[44.1,null],"high":[45.0,45.3],"low":[43.9,44.0],
				"close":[44.7,45.1],"volume":[1200000]
			}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	y := New().WithBaseURL(srv.URL)
	y.now = func() time.Time { return time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC) }

	bars, err := y.FetchPriceHistory(context.Background(), "BHP")
	require.NoError(t, err)

	assert.Equal(t, "/BHP.AX", gotPath)
	assert.Equal(t, "1d", gotInterval)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-05-01T00:00:00Z", bars[0].Timestamp)
	assert.Equal(t, "44.7", core.FormatFloat(bars[0].Close))
	assert.Equal(t, "1200000", core.FormatFloat(bars[0].Volume))
	assert.Equal(t, "N/A", core.FormatFloat(bars[1].Open))
	assert.Equal(t, "N/A", core.FormatFloat(bars[1].Volume))
}

func TestYahoo_FetchHistory_ChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	_, err := New().WithBaseURL(srv.URL).FetchPriceHistory(context.Background(), "ZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrCollectorFailed))
}

func TestYahoo_FetchHistory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New().WithBaseURL(srv.URL).FetchPriceHistory(context.Background(), "ZZZ")
	assert.True(t, errors.Is(err, core.ErrSymbolNotFound))
}

func TestYahoo_FetchHistory_InvalidSymbol(t *testing.T) {
	_, err := New().FetchPriceHistory(context.Background(), "BH P")
	assert.True(t, errors.Is(err, core.ErrSymbolNotFound))
}
