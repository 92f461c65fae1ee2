package route

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fonda/internal/route"
)

type Handler struct {
	table *route.Table
}

func NewHandler(table *route.Table) *Handler {
	return &Handler{table: table}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/resolve", h.resolve)
}

type resolveResponse struct {
	Path string     `json:"path"`
	View route.View `json:"view"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.table.Entries()); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path query parameter is required", http.StatusBadRequest)
		return
	}

	view, ok := h.table.Resolve(path)
	if !ok {
		http.Error(w, "no view for path", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resolveResponse{Path: path, View: view}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
