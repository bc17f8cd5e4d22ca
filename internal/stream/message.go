package stream

import (
	"github.com/anystockai/tracker/internal/backend"
	"github.com/anystockai/tracker/internal/core"
)

// ParseMessage reads a pushed signal. Any valid JSON is accepted; a value
// that is not an object yields a Signal with every field absent.
func ParseMessage(data []byte) core.Signal {
	return backend.ParseSignal(data)
}
