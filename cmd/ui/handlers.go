package main

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"upbit-trade-dashboard/internal/analytics"
	"upbit-trade-dashboard/internal/models"
	"upbit-trade-dashboard/internal/render"

	"go.uber.org/zap"
)

// dashboardBuilder is the part of the analytics engine the handlers use.
type dashboardBuilder interface {
	Build(ctx context.Context, view analytics.View) (*analytics.Dashboard, error)
}

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log        *zap.Logger
	engine     dashboardBuilder
	page       *template.Template
	timeFormat string
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, engine dashboardBuilder, timeFormat string) (*APIHandler, error) {
	page, err := parsePage(timeFormat)
	if err != nil {
		return nil, err
	}
	return &APIHandler{log: log, engine: engine, page: page, timeFormat: timeFormat}, nil
}

// Routes registers the handlers on mux.
func (h *APIHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", h.StatusHandler)
	mux.HandleFunc("GET /api/dashboard", h.DashboardHandler)
	mux.HandleFunc("GET /api/trades", h.TradesHandler)
	mux.HandleFunc("GET /api/reflections", h.ReflectionsHandler)
	mux.HandleFunc("GET /api/reflections/{id}", h.ReflectionHandler)
	mux.HandleFunc("GET /{$}", h.IndexHandler)
}

// StatusHandler reports that the server is up.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// DashboardHandler returns the full dashboard of the requested view.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.build(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, dash)
}

// TradesHandler returns the recent trades of the requested view.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.build(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, nonNil(dash.Trades))
}

// reflectionItem is the list form of a reflection: selection is by ID.
type reflectionItem struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// ReflectionsHandler returns the selectable reflection labels, newest first.
func (h *APIHandler) ReflectionsHandler(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.build(w, r)
	if !ok {
		return
	}
	items := make([]reflectionItem, 0, len(dash.Reflections))
	for _, e := range dash.Reflections {
		items = append(items, reflectionItem{ID: e.ID, Label: e.Label})
	}
	h.writeJSON(w, items)
}

// ReflectionHandler returns one reflection with its reason.
func (h *APIHandler) ReflectionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid reflection id", http.StatusBadRequest)
		return
	}
	dash, ok := h.build(w, r)
	if !ok {
		return
	}
	entry, found := analytics.SelectReflection(dash.Reflections, uint(id))
	if !found {
		http.Error(w, "Reflection not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, entry)
}

// pageData is what the index template renders.
type pageData struct {
	*analytics.Dashboard
	Views    []analytics.View
	Selected *analytics.ReflectionEntry
}

// IndexHandler renders the HTML dashboard.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.build(w, r)
	if !ok {
		return
	}

	data := pageData{Dashboard: dash, Views: selectableViews()}
	if len(dash.Reflections) > 0 {
		selected := dash.Reflections[0]
		if raw := r.URL.Query().Get("reflection"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				if entry, found := analytics.SelectReflection(dash.Reflections, uint(id)); found {
					selected = entry
				}
			}
		}
		data.Selected = &selected
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.log.Error("Failed to render dashboard page", zap.Error(err))
	}
}

// build parses the coin query parameter and runs one render pass. It writes
// the error response itself and reports whether the caller may continue.
func (h *APIHandler) build(w http.ResponseWriter, r *http.Request) (*analytics.Dashboard, bool) {
	view, err := analytics.ParseView(r.URL.Query().Get("coin"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	dash, err := h.engine.Build(r.Context(), view)
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.String("view", string(view)), zap.Error(err))
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return nil, false
	}
	return dash, true
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func selectableViews() []analytics.View {
	views := []analytics.View{analytics.ViewBoth}
	for _, c := range models.TrackedCoins {
		views = append(views, analytics.ForCoin(c))
	}
	return views
}

func parsePage(timeFormat string) (*template.Template, error) {
	if timeFormat == "" {
		timeFormat = analytics.DefaultLabelTimeFormat
	}
	funcs := template.FuncMap{
		"coinName": render.CoinName,
		"polyline": render.Polyline,
		"krw":      analytics.FormatKRW,
		"ts": func(t time.Time) string {
			return t.Format(timeFormat)
		},
	}
	return template.New("index.html").Funcs(funcs).ParseFS(webFS, "web/templates/index.html")
}
