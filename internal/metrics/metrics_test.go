package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NotNil(t, reg)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs, "expected runtime metrics at minimum")
}

func TestRegistry_RecordRequest_StatusClasses(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{101, "1xx"},
		{200, "2xx"},
		{303, "3xx"},
		{404, "4xx"},
		{502, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			reg := NewRegistry()
			reg.RecordRequest("GET", "/", tt.status, 0.01)

			got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/", tt.expected))
			assert.Equal(t, 1.0, got)
		})
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.httpRequestsInFlight))
}

func TestRegistry_RecordBackendRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordBackendRequest("predict", "ok", 0.2)
	reg.RecordBackendRequest("predict", "ok", 0.3)
	reg.RecordBackendRequest("signal_history", "unavailable", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.backendRequests.WithLabelValues("predict", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.backendRequests.WithLabelValues("signal_history", "unavailable")))
	assert.Equal(t, 2, testutil.CollectAndCount(reg.backendDuration))
}

func TestRegistry_StreamMetrics(t *testing.T) {
	reg := NewRegistry()

	reg.SetStreamConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.streamConnected))

	reg.RecordStreamMessage("applied")
	reg.RecordStreamMessage("discarded")
	reg.RecordStreamMessage("applied")
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.streamMessages.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.streamMessages.WithLabelValues("discarded")))

	reg.SetStreamConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.streamConnected))
}

func TestRegistry_RecordSuggestions(t *testing.T) {
	reg := NewRegistry()
	reg.RecordSuggestions(8)
	assert.Equal(t, 1, testutil.CollectAndCount(reg.suggestions))
}

func TestRegistry_ImplementsGatherer(t *testing.T) {
	var _ prometheus.Gatherer = NewRegistry()
}
