package handlers

import (
	"io"
	"net/http"

	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// ExportHandler provides HTTP handlers for data exports.
type ExportHandler struct {
	exportService *services.ExportService
}

// NewExportHandler constructs a handler with the provided service.
func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportRouter registers export routes on the given router.
func ExportRouter(r chi.Router, exportService *services.ExportService) {
	handler := NewExportHandler(exportService)

	r.Post("/", handler.CreateExport)
	r.Get("/{exportName}", handler.GetExport)
	r.Delete("/{exportName}", handler.DeleteExport)
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	export, err := h.exportService.Create(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "create export")
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "export created",
		"key", export.Key,
		"categories", export.Categories,
		"transactions", export.Transactions,
	)
	writeJSON(w, http.StatusCreated, export)
}

func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reader, err := h.exportService.Open(r.Context(), user, chi.URLParam(r, "exportName"))
	if err != nil {
		writeServiceError(w, r, err, "open export")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "failed to stream export", "error", err)
	}
}

func (h *ExportHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.exportService.Delete(r.Context(), user, chi.URLParam(r, "exportName")); err != nil {
		writeServiceError(w, r, err, "delete export")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
