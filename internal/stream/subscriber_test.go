package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anystockai/tracker/internal/core"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu      sync.Mutex
	signals []core.Signal
}

func (c *collector) handle(sig core.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, sig)
}

func (c *collector) snapshot() []core.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Signal(nil), c.signals...)
}

type fakeRecorder struct {
	mu        sync.Mutex
	results   map[string]int
	connected []bool
}

func (f *fakeRecorder) RecordStreamMessage(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = map[string]int{}
	}
	f.results[result]++
}

func (f *fakeRecorder) SetStreamConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, connected)
}

func (f *fakeRecorder) count(result string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[result]
}

// pushServer upgrades /ws/signals, writes msgs, then either holds the
// connection open until the client leaves or closes it.
func pushServer(t *testing.T, msgs []string, hold bool) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != Path {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		if hold {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(srv.Close)

	wsURL, err := URL(srv.URL)
	require.NoError(t, err)
	return wsURL
}

func TestURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws/signals", false},
		{"https://api.example.com/", "wss://api.example.com/ws/signals", false},
		{"https://api.example.com/v1", "wss://api.example.com/v1/ws/signals", false},
		{"ftp://example.com", "", true},
	}
	for _, tt := range tests {
		got, err := URL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSubscriber_DeliversParsedMessages(t *testing.T) {
	wsURL := pushServer(t, []string{
		`{"symbol":"BHP","buy_signal":true,"confidence":0.8,"current_price":45.1,"timestamp":"2024-05-01T10:00:00"}`,
		`{"symbol":"CBA","sell_signal":true,"current_price":null,"timestamp":"2024-05-01T10:01:00"}`,
	}, true)

	col := &collector{}
	rec := &fakeRecorder{}
	sub := NewSubscriber(wsURL, time.Second, col.handle, nil)
	sub.SetRecorder(rec)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- sub.Run(ctx) }()

	require.Eventually(t, func() bool { return len(col.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, sub.Connected())

	got := col.snapshot()
	assert.Equal(t, "BHP", got[0].Symbol)
	assert.Equal(t, "CBA", got[1].Symbol)
	assert.Nil(t, got[1].CurrentPrice)
	assert.Equal(t, "2024-05-01T10:01:00", got[1].Timestamp)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, sub.Connected())
	assert.Equal(t, 2, rec.count(ResultApplied))
}

func TestSubscriber_DiscardsInvalidJSON(t *testing.T) {
	wsURL := pushServer(t, []string{
		`{"symbol":"BHP","buy_signal":true}`,
		`not json at all`,
		`{"symbol":`,
		`{"symbol":"RIO"}`,
	}, true)

	col := &collector{}
	rec := &fakeRecorder{}
	sub := NewSubscriber(wsURL, time.Second, col.handle, nil)
	sub.SetRecorder(rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	require.Eventually(t, func() bool { return len(col.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)

	got := col.snapshot()
	assert.Equal(t, "BHP", got[0].Symbol)
	assert.Equal(t, "RIO", got[1].Symbol)
	require.Eventually(t, func() bool { return rec.count(ResultDiscarded) == 2 }, time.Second, 10*time.Millisecond)
}

func TestSubscriber_NoReconnectAfterServerClose(t *testing.T) {
	wsURL := pushServer(t, []string{`{"symbol":"BHP"}`}, false)

	col := &collector{}
	sub := NewSubscriber(wsURL, time.Second, col.handle, nil)

	err := sub.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrStreamClosed))
	assert.Len(t, col.snapshot(), 1)
	assert.False(t, sub.Connected())
}

func TestSubscriber_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	srv.Close()

	sub := NewSubscriber(wsURL, time.Second, nil, nil)
	err := sub.Run(context.Background())
	assert.True(t, errors.Is(err, core.ErrStreamClosed))
}

func TestSubscriber_RejectsSecondRun(t *testing.T) {
	wsURL := pushServer(t, nil, true)
	sub := NewSubscriber(wsURL, time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	require.Eventually(t, sub.Connected, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, sub.Run(ctx), core.ErrStreamRunning)
}

func TestSubscriber_CloseWithoutRun(t *testing.T) {
	sub := NewSubscriber("ws://localhost:1/ws/signals", 0, nil, nil)
	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
}

func TestParseMessage_NonObject(t *testing.T) {
	assert.Equal(t, core.Signal{}, ParseMessage([]byte(`42`)))
}
