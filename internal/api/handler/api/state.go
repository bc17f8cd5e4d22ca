// Package api holds the JSON handlers mounted under /api/v1.
package api

import (
	"net/http"

	"github.com/anystockai/tracker/internal/api/response"
	"github.com/anystockai/tracker/internal/app"
	"github.com/anystockai/tracker/internal/core"
)

// StateApp defines the interface needed from app.App.
type StateApp interface {
	Snapshot() app.State
	Realtime() *core.Signal
}

// StateHandler exposes the current view state.
type StateHandler struct {
	app StateApp
}

// NewStateHandler creates a new state handler.
func NewStateHandler(app StateApp) *StateHandler {
	return &StateHandler{app: app}
}

// State returns the full view state.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.app.Snapshot())
}

// Realtime returns the latest pushed signal, or null.
func (h *StateHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"realtime": h.app.Realtime(),
	})
}
