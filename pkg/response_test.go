package pkg

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sentinel → (status, code) eşlemesi stabil bir sözleşmedir —
// frontend code alanına göre dallanır, mesaj metnine göre değil.
func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{ErrInvalidSession, http.StatusUnauthorized, "AUTH_REQUIRED"},
		{ErrInvalidCreds, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrAccountDisabled, http.StatusForbidden, "ACCOUNT_DISABLED"},
		{ErrLoginLocked, http.StatusTooManyRequests, "LOGIN_LOCKED"},
		{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var resp APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.err.Error(), resp.Error)
		})
	}
}

// Wrap edilmiş sentinel de doğru status/code'a düşmeli.
func TestErrorMappingWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("%w: signature verification failed", ErrInvalidCreds))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Code)
}

// Sınıflandırılamayan hata 500'e düşer ve mesajı generic'tir —
// altyapı hatalarının iç detayı (host, port, query) client'a görünmez.
func TestErrorMappingUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("something odd"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INTERNAL", resp.Code)
	assert.Equal(t, ErrInternal.Error(), resp.Error)
}

func TestErrorNeverLeaksInfrastructureDetail(t *testing.T) {
	infraErr := fmt.Errorf("failed to get user by id: %w",
		fmt.Errorf("dial tcp 10.0.0.5:27017: connection refused"))

	rec := httptest.NewRecorder()
	Error(rec, infraErr)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "10.0.0.5")
	assert.NotContains(t, body, "dial tcp")
	assert.NotContains(t, body, "connection refused")

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, ErrInternal.Error(), resp.Error)
	assert.Equal(t, "INTERNAL", resp.Code)
}

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
}

func TestMessageEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusOK, "logged out")

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "logged out", resp.Message)
	assert.Nil(t, resp.Data)
}
