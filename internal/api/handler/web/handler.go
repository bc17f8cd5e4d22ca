// Package web renders the tracker's HTML pages and fragments.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	"github.com/anystockai/tracker/internal/app"
	"github.com/anystockai/tracker/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

// Page templates, each parsed together with layout.html and the partials.
const (
	pageDashboard = "dashboard.html"
	pageHoldings  = "holdings.html"
)

var pages = []string{pageDashboard, pageHoldings}

var partials = []string{"realtime.html", "suggestions.html"}

// Tracker is the view state the pages render and the actions they trigger.
type Tracker interface {
	Snapshot() app.State
	Realtime() *core.Signal
	SetTicker(input string) []string
	Select(symbol string)
	FetchSignal(ctx context.Context, symbol string) error
	FetchHistory(ctx context.Context, symbol string) error
	FetchPrices(ctx context.Context, symbol string) error
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	pageTemplates map[string]*template.Template
	tracker       Tracker
	holdings      []core.HoldingEntry
	logger        *zap.Logger
}

// Funcs are the template helpers shared by every page.
var Funcs = template.FuncMap{
	"num":   core.FormatFloat,
	"text":  core.FormatText,
	"yesno": core.YesNo,
}

// NewHandler loads templates from templatesDir, or from the embedded copy
// when templatesDir is empty.
func NewHandler(templatesDir string, tracker Tracker, holdings []core.HoldingEntry, logger *zap.Logger) (*Handler, error) {
	fsys := TemplateFS()
	if templatesDir != "" {
		fsys = os.DirFS(templatesDir)
	}
	return NewHandlerWithFS(fsys, tracker, holdings, logger)
}

// NewHandlerWithFS creates a handler using templates from fsys.
func NewHandlerWithFS(fsys fs.FS, tracker Tracker, holdings []core.HoldingEntry, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if holdings == nil {
		holdings = []core.HoldingEntry{}
	}

	pageTemplates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		files := append([]string{"layout.html", page}, partials...)
		tmpl, err := template.New("layout.html").Funcs(Funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		tracker:       tracker,
		holdings:      holdings,
		logger:        logger,
	}, nil
}

// render executes the layout of the given page with data.
func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	h.execute(w, page, "layout.html", data)
}

// renderPartial executes a named fragment defined in the partials.
func (h *Handler) renderPartial(w http.ResponseWriter, name string, data any) {
	h.execute(w, pageDashboard, name, data)
}

func (h *Handler) execute(w http.ResponseWriter, page, name string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("rendering template", zap.String("page", page), zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return subFS
}
