package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"

	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/internal/services"
	"github.com/financeapi/apiserver/types"
)

const maxBodyBytes = 1 << 20

type contextKey string

const contextIdentityKey contextKey = "identity"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	User  types.User
	Roles []string
}

// HasRole reports whether the identity carries the given realm role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}

func identityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(Identity)
	return identity, ok
}

// userFromContext returns the resolved caller. Routes behind RequireUser can
// rely on it being present.
func userFromContext(ctx context.Context) (types.User, error) {
	identity, ok := identityFromContext(ctx)
	if !ok || identity.User.ID == "" {
		return types.User{}, errors.New("missing user")
	}
	return identity.User, nil
}

// ErrorResponse is the error payload. Violations is set for validation failures only.
type ErrorResponse struct {
	Error      string               `json:"error"`
	Violations []services.Violation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP statuses. Anything not
// recognised is logged and reported as "failed to <action>".
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		forbiddenErr  *services.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      validationErr.Error(),
			Violations: validationErr.Violations,
		})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &forbiddenErr):
		writeError(w, http.StatusForbidden, forbiddenErr.Error())
	case errors.Is(err, services.ErrExportsDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrMissingID):
		log.FromContext(r.Context()).ErrorContext(r.Context(), "contract violation", "action", action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed", "action", action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body")
	}
	return nil
}

// collect drains a lazy listing into a slice, never returning nil.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
