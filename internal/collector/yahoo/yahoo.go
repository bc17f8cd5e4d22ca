package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/anystockai/tracker/internal/core"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	// asxSuffix is Yahoo's exchange suffix for the ASX.
	asxSuffix = ".AX"
)

// validSymbol matches ASX codes like BHP, A2M, or already suffixed BHP.AX
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches ASX daily bars from the Yahoo Finance chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

// New creates a new Yahoo collector
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
}

// WithBaseURL points the collector at another chart endpoint.
func (y *Yahoo) WithBaseURL(baseURL string) *Yahoo {
	y.baseURL = strings.TrimRight(baseURL, "/")
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// toYahooSymbol appends the ASX suffix to bare codes, as the backend does.
func (y *Yahoo) toYahooSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if strings.HasSuffix(symbol, asxSuffix) {
		return symbol
	}
	return symbol + asxSuffix
}

// FetchPriceHistory fetches one year of daily bars.
func (y *Yahoo) FetchPriceHistory(ctx context.Context, symbol string) ([]core.PriceBar, error) {
	end := y.now()
	return y.FetchHistory(ctx, symbol, end.AddDate(-1, 0, 0), end)
}

// FetchHistory fetches daily bars between start and end. Missing values in
// Yahoo's arrays are kept as absent fields.
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrSymbolNotFound, err)
	}
	yahooSymbol := y.toYahooSymbol(symbol)

	reqURL := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(yahooSymbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("no data for symbol: %s", symbol))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("no data for symbol: %s", symbol))
	}

	r := result.Chart.Result[0]
	bars := make([]core.PriceBar, 0, len(r.Timestamp))
	var q quoteIndicator
	if len(r.Indicators.Quote) > 0 {
		q = r.Indicators.Quote[0]
	}

	for i, ts := range r.Timestamp {
		bars = append(bars, core.PriceBar{
			Timestamp: core.BarTimestamp(time.Unix(ts, 0)),
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     at(q.Close, i),
			Volume:    at(q.Volume, i),
		})
	}

	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
