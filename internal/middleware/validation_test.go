package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "unidash/internal/errors"
	"unidash/pkg/contracts/domain"
)

func TestValidator_DecodeJSON(t *testing.T) {
	v := NewValidator(discardLogger())

	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
		check     func(t *testing.T, req domain.SelectionRequest)
	}{
		{
			name: "full selection",
			body: `{"years":[2015,2016],"terms":["Fall"],"departments":["Arts Enrolled"]}`,
			check: func(t *testing.T, req domain.SelectionRequest) {
				sel := req.ToSelection()
				assert.Equal(t, []float64{2015, 2016}, sel.Years)
				assert.Equal(t, []string{"Fall"}, sel.Terms)
				assert.Equal(t, []string{"Arts Enrolled"}, sel.Departments)
			},
		},
		{
			name: "omitted axes stay nil, empty axes stay empty",
			body: `{"terms":[]}`,
			check: func(t *testing.T, req domain.SelectionRequest) {
				assert.Nil(t, req.Years)
				assert.NotNil(t, req.Terms)
				assert.Empty(t, req.Terms)
				assert.Nil(t, req.Departments)
			},
		},
		{name: "unknown department", body: `{"departments":["Medicine Enrolled"]}`, wantCode: apperrors.CodeValidationFailed, wantField: "departments[0]"},
		{name: "blank term", body: `{"terms":[""]}`, wantCode: apperrors.CodeValidationFailed, wantField: "terms[0]"},
		{name: "unknown field", body: `{"year":[2015]}`, wantCode: apperrors.CodeInvalidRequest},
		{name: "malformed json", body: `{"years":`, wantCode: apperrors.CodeInvalidRequest},
		{name: "empty body", body: ``, wantCode: apperrors.CodeInvalidRequest},
		{name: "trailing document", body: `{} {}`, wantCode: apperrors.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(tt.body))

			var req domain.SelectionRequest
			err := v.DecodeJSON(r, &req)

			if tt.wantCode == "" {
				require.NoError(t, err)
				tt.check(t, req)
				return
			}

			var apiErr *apperrors.APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			if tt.wantField != "" {
				details, ok := apiErr.Details.(apperrors.ValidationErrors)
				require.True(t, ok)
				require.NotEmpty(t, details.Errors)
				assert.Equal(t, tt.wantField, details.Errors[0].Field)
			}
		})
	}
}

func TestValidator_ValuesFromDataAreNotCapped(t *testing.T) {
	v := NewValidator(discardLogger())

	years := make([]float64, 0, 225)
	for y := 1800; y < 2025; y++ {
		years = append(years, float64(y))
	}
	terms := make([]string, 0, 80)
	for i := 0; i < 80; i++ {
		terms = append(terms, strings.Repeat("T", 100)+strconv.Itoa(i))
	}

	req := domain.SelectionRequest{
		Years:       append(years, -44),
		Terms:       terms,
		Departments: append(append([]string{}, domain.DepartmentColumns...), domain.DepartmentColumns...),
	}
	assert.NoError(t, v.ValidateStruct(req))
}

func TestValidator_DepartmentMessage(t *testing.T) {
	v := NewValidator(nil)

	err := v.ValidateStruct(domain.SelectionRequest{Departments: []string{"Law Enrolled"}})

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apperrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Contains(t, details.Errors[0].Message, "Engineering Enrolled")
}

func TestValidator_DecodeJSON_BodyTooLarge(t *testing.T) {
	v := NewValidator(discardLogger())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(`{"terms":["Spring","Fall"]}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 8)

	var req domain.SelectionRequest
	err := v.DecodeJSON(r, &req)

	var maxBytes *http.MaxBytesError
	assert.True(t, errors.As(err, &maxBytes))
}

func TestContentTypeValidator(t *testing.T) {
	eh := apperrors.NewErrorHandler(discardLogger(), false)
	h := ContentTypeValidator(eh, "application/json")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{name: "get skips check", method: http.MethodGet, want: http.StatusOK},
		{name: "json post", method: http.MethodPost, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "form post", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "missing type", method: http.MethodPost, want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/dashboard", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
