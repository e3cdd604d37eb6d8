package handlers

import (
	"net/http"

	"github.com/financeapi/apiserver/internal/services"
	"github.com/financeapi/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// TransactionHandler provides HTTP handlers for transactions.
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler constructs a handler with the provided service.
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRouter registers transaction routes on the given router.
func TransactionRouter(r chi.Router, transactionService *services.TransactionService) {
	handler := NewTransactionHandler(transactionService)

	r.Get("/", handler.ListTransactions)
	r.Post("/", handler.CreateTransaction)
	r.Route("/{transactionID}", func(r chi.Router) {
		r.Get("/", handler.GetTransaction)
		r.Put("/", handler.ReplaceTransaction)
		r.Delete("/", handler.DeleteTransaction)
	})
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := collect(h.transactionService.ListAll(r.Context(), user))
	if err != nil {
		writeServiceError(w, r, err, "list transactions")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transaction, err := h.transactionService.FindByID(r.Context(), user, chi.URLParam(r, "transactionID"))
	if err != nil {
		writeServiceError(w, r, err, "fetch transaction")
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input types.TransactionInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.transactionService.Create(r.Context(), user, input)
	if err != nil {
		writeServiceError(w, r, err, "create transaction")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) ReplaceTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input types.TransactionInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	replaced, err := h.transactionService.Replace(r.Context(), user, chi.URLParam(r, "transactionID"), input)
	if err != nil {
		writeServiceError(w, r, err, "replace transaction")
		return
	}
	writeJSON(w, http.StatusOK, replaced)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.transactionService.DeleteByID(r.Context(), user, chi.URLParam(r, "transactionID")); err != nil {
		writeServiceError(w, r, err, "delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
