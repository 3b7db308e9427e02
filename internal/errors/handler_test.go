package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), includeStack)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantType: TypeTimeout},
		{name: "wrapped cancel", err: fmt.Errorf("render: %w", context.Canceled), wantStatus: http.StatusGatewayTimeout, wantType: TypeTimeout},
		{name: "validation", err: ErrValidation("terms", "too long"), wantStatus: http.StatusBadRequest, wantType: TypeValidation},
		{name: "invalid request", err: ErrInvalidRequest, wantStatus: http.StatusBadRequest, wantType: TypeInvalidRequest},
		{name: "wrapped api error", err: fmt.Errorf("load: %w", DatasetUnavailableError(assertErr("missing"))), wantStatus: http.StatusServiceUnavailable, wantType: TypeDatasetUnavailable},
		{name: "payload too large", err: &http.MaxBytesError{Limit: 10}, wantStatus: http.StatusRequestEntityTooLarge, wantType: TypePayloadTooLarge},
		{name: "unknown error", err: assertErr("kaboom"), wantStatus: http.StatusInternalServerError, wantType: TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(false)
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-1"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/dashboard", body["instance"])
			assert.Equal(t, "req-1", body["trace_id"])
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_InternalErrorHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(true).HandleError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), assertErr("secret path /etc/x"))

	body := decodeProblem(t, rec)
	assert.NotContains(t, body["detail"], "secret")
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_APIErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), InvalidParameter("year", "abc"))

	body := decodeProblem(t, rec)
	assert.Equal(t, CodeInvalidParameter, body["error_code"])
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "year", details["field"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeMethodNotAllowed, body["type"])
	assert.True(t, strings.Contains(body["detail"].(string), "DELETE"))
}

func TestErrorHandler_Recoverer(t *testing.T) {
	h := newTestHandler(true)
	panicking := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("render exploded")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "render exploded", body["panic"])
}

func TestErrorHandler_RecovererRepanicsAbort(t *testing.T) {
	h := newTestHandler(false)
	aborting := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.Panics(t, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
