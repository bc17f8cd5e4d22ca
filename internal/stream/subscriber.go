// Package stream consumes the backend's real-time signal channel.
package stream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/anystockai/tracker/internal/core"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Path is the backend's signal channel.
const Path = "/ws/signals"

// Message results, also used as metric labels.
const (
	ResultApplied   = "applied"
	ResultDiscarded = "discarded"
)

// Handler receives every successfully parsed message, in arrival order.
type Handler func(core.Signal)

// Recorder receives push-channel events.
type Recorder interface {
	RecordStreamMessage(result string)
	SetStreamConnected(connected bool)
}

// URL derives the channel address from the backend base URL by swapping
// the leading "http" for "ws", so https becomes wss.
func URL(backendURL string) (string, error) {
	base := strings.TrimRight(backendURL, "/")
	if !strings.HasPrefix(base, "http") {
		return "", core.WrapError(core.ErrConfigInvalid, fmt.Errorf("backend url %q is not http(s)", backendURL))
	}
	u, err := url.Parse("ws" + strings.TrimPrefix(base, "http") + Path)
	if err != nil {
		return "", core.WrapError(core.ErrConfigInvalid, err)
	}
	return u.String(), nil
}

// Subscriber holds one connection to the signal channel for its lifetime.
// It does not reconnect: once the connection drops, Run returns.
type Subscriber struct {
	url      string
	dialer   *websocket.Dialer
	handler  Handler
	logger   *zap.Logger
	recorder Recorder

	mu        sync.Mutex
	conn      *websocket.Conn
	running   bool
	connected bool
}

// NewSubscriber creates a subscriber for the channel at wsURL.
func NewSubscriber(wsURL string, handshakeTimeout time.Duration, handler Handler, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := *websocket.DefaultDialer
	if handshakeTimeout > 0 {
		dialer.HandshakeTimeout = handshakeTimeout
	}
	return &Subscriber{
		url:     wsURL,
		dialer:  &dialer,
		handler: handler,
		logger:  logger,
	}
}

// SetRecorder attaches a metrics recorder.
func (s *Subscriber) SetRecorder(r Recorder) {
	s.recorder = r
}

// Connected reports whether the channel is currently open.
func (s *Subscriber) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Run dials the channel and reads until the connection fails or ctx is
// cancelled. Cancellation closes the connection and returns nil.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return core.ErrStreamRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return core.WrapError(core.ErrStreamClosed, fmt.Errorf("dial %s: %w", s.url, err))
	}
	s.setConn(conn)
	defer s.Close()

	s.logger.Info("signal stream connected", zap.String("url", s.url))

	// Unblock ReadMessage on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("signal stream closed")
				return nil
			}
			s.logger.Warn("signal stream read failed", zap.Error(err))
			return core.WrapError(core.ErrStreamClosed, err)
		}
		s.dispatch(data)
	}
}

// dispatch parses one message. Anything that is not valid JSON is dropped.
func (s *Subscriber) dispatch(data []byte) {
	if !gjson.ValidBytes(data) {
		s.logger.Debug("discarding non-JSON signal message", zap.Int("bytes", len(data)))
		s.record(ResultDiscarded)
		return
	}
	sig := ParseMessage(data)
	s.record(ResultApplied)
	if s.handler != nil {
		s.handler(sig)
	}
}

func (s *Subscriber) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordStreamMessage(result)
	}
}

func (s *Subscriber) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	if s.recorder != nil {
		s.recorder.SetStreamConnected(true)
	}
}

// Close tears down the connection. It is safe to call more than once.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	conn := s.conn
	wasConnected := s.connected
	s.conn = nil
	s.connected = false
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	if wasConnected && s.recorder != nil {
		s.recorder.SetStreamConnected(false)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}
