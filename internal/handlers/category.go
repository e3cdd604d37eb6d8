package handlers

import (
	"net/http"

	"github.com/financeapi/apiserver/internal/services"
	"github.com/financeapi/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// CategoryHandler provides HTTP handlers for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler constructs a handler with the provided service.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRouter registers category routes on the given router.
func CategoryRouter(r chi.Router, categoryService *services.CategoryService) {
	handler := NewCategoryHandler(categoryService)

	r.Get("/", handler.ListCategories)
	r.Post("/", handler.CreateCategory)
	r.Route("/{categoryID}", func(r chi.Router) {
		r.Get("/", handler.GetCategory)
		r.Put("/", handler.ReplaceCategory)
		r.Delete("/", handler.DeleteCategory)
	})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := collect(h.categoryService.ListAll(r.Context(), user))
	if err != nil {
		writeServiceError(w, r, err, "list categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	category, err := h.categoryService.FindByID(r.Context(), user, chi.URLParam(r, "categoryID"))
	if err != nil {
		writeServiceError(w, r, err, "fetch category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input types.CategoryInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.categoryService.Create(r.Context(), user, input)
	if err != nil {
		writeServiceError(w, r, err, "create category")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CategoryHandler) ReplaceCategory(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input types.CategoryInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	replaced, err := h.categoryService.Replace(r.Context(), user, chi.URLParam(r, "categoryID"), input)
	if err != nil {
		writeServiceError(w, r, err, "replace category")
		return
	}
	writeJSON(w, http.StatusOK, replaced)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.categoryService.DeleteByID(r.Context(), user, chi.URLParam(r, "categoryID")); err != nil {
		writeServiceError(w, r, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
