// Package handlers provides HTTP handlers for browsing evaluation runs.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alienxp03/botsleuth/internal/export"
	"github.com/alienxp03/botsleuth/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	storage storage.Storage
}

// New creates a new Handler.
func New(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", h.handleHealth)
	r.Get("/api/runs", h.handleListRuns)
	r.Get("/api/runs/{id}", h.handleGetRun)
	r.Delete("/api/runs/{id}", h.handleDeleteRun)
	r.Get("/api/runs/{id}/results", h.handleGetResults)
	r.Get("/api/runs/{id}/export/{format}", h.handleExportRun)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	runs, err := h.storage.ListRuns(limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.storage.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("run not found"))
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.storage.GetRun(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("run not found"))
		return
	}

	if err := h.storage.DeleteRun(id); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.storage.GetRun(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("run not found"))
		return
	}

	results, err := h.storage.GetResults(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  id,
		"results": results,
	})
}

func (h *Handler) handleExportRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := export.Format(chi.URLParam(r, "format"))

	exporter, err := export.GetExporter(format)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	run, err := h.storage.GetRun(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("run not found"))
		return
	}

	results, err := h.storage.GetResults(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := export.GenerateFilename(run, exporter.FileExtension())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	switch format {
	case export.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}

	if err := exporter.Export(run, results, w); err != nil {
		slog.Error("Export failed", "run", id, "format", format, "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, name string, fallback int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
