package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		payload      any
		expectedBody string
	}{
		{
			name:         "simple map",
			status:       http.StatusOK,
			payload:      map[string]string{"message": "hello"},
			expectedBody: `{"message":"hello"}`,
		},
		{
			name:         "error response",
			status:       http.StatusBadRequest,
			payload:      dto.ErrorResponse{Error: "bad request", Code: "invalid_input"},
			expectedBody: `{"error":"bad request","code":"invalid_input"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSON(w, tt.status, tt.payload)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, domainErrors.NewValidationError("amount", "must be positive"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
	assert.Contains(t, w.Body.String(), "amount")
}

func TestWriteError_MappedErrors(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{domainErrors.ErrPaymentNotFound, http.StatusNotFound, "not_found"},
		{domainErrors.ErrBookingNotFound, http.StatusNotFound, "not_found"},
		{domainErrors.ErrTutorNotFound, http.StatusNotFound, "not_found"},
		{domainErrors.ErrDuplicateIdempotencyKey, http.StatusConflict, "duplicate_request"},
		{domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
		{domainErrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedCode, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, fmt.Errorf("use case: %w", tt.err))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedCode)
		})
	}
}

func TestWriteError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, domainErrors.NewDomainError("provider_error", "provider rejected the charge", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "provider_error")
}

func TestWriteError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, errors.New("pgx: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal details must not leak to the client.
	assert.NotContains(t, w.Body.String(), "pgx")
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := `{"booking_id":"0b8e2f1c-9a64-4a2e-8f35-1f5f86f4a111","amount":150.0,"currency":"RUB"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		var req dto.CreateIntentRequest
		require.NoError(t, decodeAndValidate(r, &req))
		assert.Equal(t, "RUB", req.Currency)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))

		var req dto.CreateIntentRequest
		err := decodeAndValidate(r, &req)

		var ve *domainErrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "body", ve.Field)
	})

	t.Run("failing validation tag", func(t *testing.T) {
		body := `{"booking_id":"0b8e2f1c-9a64-4a2e-8f35-1f5f86f4a111","amount":-5,"currency":"RUB"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		var req dto.CreateIntentRequest
		err := decodeAndValidate(r, &req)

		var ve *domainErrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Amount", ve.Field)
	})
}
