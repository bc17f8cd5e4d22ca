// Package backend is the HTTP client for the signal backend.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anystockai/tracker/internal/core"
	"go.uber.org/zap"
)

const maxBodyBytes = 4 << 20

// Endpoint names, also used as metric labels.
const (
	EndpointPredict       = "predict"
	EndpointSignalHistory = "signal_history"
	EndpointPriceHistory  = "history"
)

// Request outcomes, also used as metric labels.
const (
	OutcomeOK          = "ok"
	OutcomeStatus      = "error_status"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
)

// Recorder receives one call per backend request.
type Recorder interface {
	RecordBackendRequest(endpoint, outcome string, duration float64)
}

// Client talks to the signal backend's REST endpoints. It never retries and
// never validates the ticker it is given.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	recorder   Recorder
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SetRecorder attaches a metrics recorder.
func (c *Client) SetRecorder(r Recorder) {
	c.recorder = r
}

// Name identifies the backend as a price source.
func (c *Client) Name() string {
	return "backend"
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchSignal calls GET /predict?symbol=S.
//
// Any body that arrives is turned into a Signal: fields that are missing or
// of the wrong type come back absent. Only transport failures return an
// error.
func (c *Client) FetchSignal(ctx context.Context, symbol string) (*core.Signal, error) {
	body, err := c.get(ctx, EndpointPredict, symbol)
	if err != nil {
		return nil, err
	}
	sig := ParseSignal(body)
	return &sig, nil
}

// FetchSignalHistory calls GET /signal_history?symbol=S and returns the
// records under "history". Payloads of any other shape yield an empty,
// non-nil slice.
func (c *Client) FetchSignalHistory(ctx context.Context, symbol string) ([]core.HistoryRecord, error) {
	body, err := c.get(ctx, EndpointSignalHistory, symbol)
	if err != nil {
		return nil, err
	}
	return ParseSignalHistory(body), nil
}

// FetchPriceHistory calls GET /history?symbol=S for the backend's one-year
// daily bars. Coercion rules match FetchSignalHistory.
func (c *Client) FetchPriceHistory(ctx context.Context, symbol string) ([]core.PriceBar, error) {
	body, err := c.get(ctx, EndpointPriceHistory, symbol)
	if err != nil {
		return nil, err
	}
	return ParsePriceHistory(body), nil
}

func (c *Client) endpointURL(endpoint, symbol string) string {
	return fmt.Sprintf("%s/%s?symbol=%s", c.baseURL, endpoint, url.QueryEscape(symbol))
}

// get performs the request and returns the raw body regardless of status.
func (c *Client) get(ctx context.Context, endpoint, symbol string) ([]byte, error) {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if c.recorder != nil {
			c.recorder.RecordBackendRequest(endpoint, outcome, time.Since(start).Seconds())
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, symbol), nil)
	if err != nil {
		outcome = OutcomeUnavailable
		return nil, core.WrapError(core.ErrBackendUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = OutcomeUnavailable
		return nil, core.WrapError(core.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = OutcomeUnavailable
		return nil, core.WrapError(core.ErrBackendUnavailable, fmt.Errorf("reading body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = OutcomeStatus
		c.logger.Debug("backend returned error status",
			zap.String("endpoint", endpoint),
			zap.String("symbol", symbol),
			zap.Int("status", resp.StatusCode),
			zap.Error(statusError(resp.StatusCode)),
		)
	}
	if !isJSON(body) {
		outcome = OutcomeMalformed
		c.logger.Debug("backend returned malformed body",
			zap.String("endpoint", endpoint),
			zap.String("symbol", symbol),
			zap.Int("bytes", len(body)),
		)
	}

	return body, nil
}

// statusError describes a non-2xx reply. The body is still decoded and
// shown, so this is only logged.
func statusError(status int) error {
	return core.WrapError(core.ErrBackendStatus, fmt.Errorf("%d %s", status, http.StatusText(status)))
}
