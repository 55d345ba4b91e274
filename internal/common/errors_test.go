package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found wrapped", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad request", NewError(ErrBadRequest, "Topic is required"), http.StatusBadRequest},
		{"validation", NewValidationError("password", "Passwords don't match."), http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusFromError(tc.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("username", "This field is required.")
	v.Add("username", "ignored")
	v.Add("email", "Enter a valid email address.")

	err := v.OrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "This field is required.", v.Fields["username"])
	assert.Equal(t, "validation failed: email: Enter a valid email address.; username: This field is required.", err.Error())
}

func TestKindErrorKeepsMessage(t *testing.T) {
	err := NewError(ErrNotFound, "No matching questions found")
	assert.Equal(t, "No matching questions found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRespondWithServiceError(t *testing.T) {
	t.Run("validation exposes fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, NewValidationError("password", "Passwords don't match."))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Passwords don't match.", body.Fields["password"])
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, fmt.Errorf("pgUserRepository.Create: dial tcp: refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "dial tcp")
	})

	t.Run("client errors keep their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, NewError(ErrBadRequest, "Message cannot be empty"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Message cannot be empty"}`, rec.Body.String())
	})
}
