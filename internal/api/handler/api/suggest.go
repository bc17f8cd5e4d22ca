package api

import (
	"fmt"
	"net/http"

	"github.com/anystockai/tracker/internal/api/response"
	"github.com/anystockai/tracker/internal/core"
)

// MaxQueryLength bounds ?q=. ASX codes are a handful of characters.
const MaxQueryLength = 32

// SuggestApp defines the interface needed from app.App.
type SuggestApp interface {
	Suggest(input string) []string
}

// SuggestHandler serves symbol autocomplete.
type SuggestHandler struct {
	app SuggestApp
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(app SuggestApp) *SuggestHandler {
	return &SuggestHandler{app: app}
}

// Suggest returns up to eight ranked symbols for ?q=. An empty query yields
// an empty list; an overlong one is rejected.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if len(q) > MaxQueryLength {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("q must be at most %d characters, got %d", MaxQueryLength, len(q))))
		return
	}
	suggestions := h.app.Suggest(q)
	response.JSON(w, http.StatusOK, map[string]any{
		"query":       q,
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// HoldingsHandler serves the parsed 13F holdings.
type HoldingsHandler struct {
	holdings []core.HoldingEntry
}

// NewHoldingsHandler creates a holdings handler over a fixed list.
func NewHoldingsHandler(holdings []core.HoldingEntry) *HoldingsHandler {
	if holdings == nil {
		holdings = []core.HoldingEntry{}
	}
	return &HoldingsHandler{holdings: holdings}
}

// List returns every holding.
func (h *HoldingsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"holdings": h.holdings,
		"count":    len(h.holdings),
	})
}
