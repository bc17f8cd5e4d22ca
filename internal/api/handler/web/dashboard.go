package web

import (
	"context"
	"net/http"

	"github.com/anystockai/tracker/internal/app"
	"github.com/anystockai/tracker/internal/core"
)

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title string
	State app.State
}

// HoldingsData holds data for the 13F holdings template
type HoldingsData struct {
	Title    string
	Holdings []core.HoldingEntry
}

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageDashboard, DashboardData{
		Title: "ASX Tracker",
		State: h.tracker.Snapshot(),
	})
}

// Holdings renders the fund holdings page
func (h *Handler) Holdings(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageHoldings, HoldingsData{
		Title:    "Berkshire Hathaway 13F Holdings",
		Holdings: h.holdings,
	})
}

// Signal fetches the signal for ?symbol= and redirects to the dashboard.
func (h *Handler) Signal(w http.ResponseWriter, r *http.Request) {
	h.runAndRedirect(w, r, h.tracker.FetchSignal)
}

// History fetches the signal history for ?symbol= and redirects.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	h.runAndRedirect(w, r, h.tracker.FetchHistory)
}

// Prices fetches price bars for ?symbol= and redirects.
func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	h.runAndRedirect(w, r, h.tracker.FetchPrices)
}

// Select makes a suggestion the active ticker and redirects.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	h.tracker.Select(r.FormValue("symbol"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Suggestions renders the suggestion list for the input text.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, "suggestions", h.tracker.SetTicker(r.FormValue("symbol")))
}

// Realtime renders the real-time panel fragment.
func (h *Handler) Realtime(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, "realtime", h.tracker.Realtime())
}

// runAndRedirect never surfaces a fetch failure: the tracker logs it and
// keeps its prior state, and the page is shown either way.
func (h *Handler) runAndRedirect(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) error) {
	_ = fetch(r.Context(), r.FormValue("symbol"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
