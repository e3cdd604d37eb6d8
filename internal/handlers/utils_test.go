package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/financeapi/apiserver/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "validation",
			err: &services.ValidationError{Violations: []services.Violation{
				{Field: "date", Message: "is required"},
			}},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"validation failed: 'date' is required","violations":[{"field":"date","message":"is required"}]}`,
		},
		{
			name:       "not found",
			err:        fmt.Errorf("wrapped: %w", &services.NotFoundError{Resource: "category", ID: "c1"}),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"category not found"}`,
		},
		{
			name:       "forbidden",
			err:        &services.ForbiddenError{Resource: "transaction", ID: "t1"},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"transaction belongs to another user"}`,
		},
		{
			name:       "exports disabled",
			err:        services.ErrExportsDisabled,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"exports are not enabled"}`,
		},
		{
			name:       "missing id",
			err:        services.ErrMissingID,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"failed to replace category"}`,
		},
		{
			name:       "store failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"failed to replace category"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/categories/c1", nil)

			writeServiceError(rec, req, tt.err, "replace category")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Food"}`))
		require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &p))
		assert.Equal(t, "Food", p.Name)
	})

	for name, body := range map[string]string{
		"malformed":     `{"name":`,
		"empty":         ``,
		"trailing data": `{"name":"a"}{"name":"b"}`,
		"wrong type":    `{"name":42}`,
	} {
		t.Run(name, func(t *testing.T) {
			var p payload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			assert.EqualError(t, decodeJSON(httptest.NewRecorder(), req, &p), "invalid request body")
		})
	}
}

func TestCollectNeverReturnsNil(t *testing.T) {
	items, err := collect[int](func(yield func(int, error) bool) {})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	boom := errors.New("boom")
	_, err = collect[int](func(yield func(int, error) bool) {
		if !yield(1, nil) {
			return
		}
		yield(0, boom)
	})
	assert.ErrorIs(t, err, boom)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
