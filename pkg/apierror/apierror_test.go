package apierror_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/shared"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   apierror.Code
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, apierror.CodeNotFound},
		{"tenant required", shared.ErrTenantRequired, http.StatusBadRequest, apierror.CodeTenantRequired},
		{"tenant mismatch", shared.ErrTenantMismatch, http.StatusForbidden, apierror.CodeTenantMismatch},
		{"membership inactive", shared.ErrMembershipInactive, http.StatusForbidden, apierror.CodeMembershipInactive},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, apierror.CodeForbidden},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, apierror.CodeUnauthorized},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, apierror.CodeConflict},
		{"validation", shared.ErrValidation, http.StatusBadRequest, apierror.CodeBadRequest},
		{"unknown", assertableErr{}, http.StatusInternalServerError, apierror.CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := apierror.FromDomain(tt.err)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.code, e.Code)
		})
	}

	t.Run("wrapped errors map the same", func(t *testing.T) {
		err := fmt.Errorf("failed to load membership: %w", shared.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, apierror.FromDomain(err).Status)
	})

	t.Run("mismatch and inactive responses read identically", func(t *testing.T) {
		mismatch := apierror.FromDomain(shared.ErrTenantMismatch)
		inactive := apierror.FromDomain(shared.ErrMembershipInactive)
		assert.Equal(t, mismatch.Message, inactive.Message)
	})

	t.Run("internal error hides the cause", func(t *testing.T) {
		e := apierror.FromDomain(assertableErr{})
		assert.NotContains(t, e.Message, "database is on fire")
	})
}

type assertableErr struct{}

func (assertableErr) Error() string { return "database is on fire" }

func TestError_WriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	apierror.ValidationFailed([]map[string]string{{"field": "name"}}).WriteJSON(rec)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp apierror.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, apierror.CodeValidationFailed, resp.Code)
	assert.NotNil(t, resp.Details)
}

func TestRateLimitExceeded(t *testing.T) {
	e := apierror.RateLimitExceeded()
	assert.Equal(t, http.StatusTooManyRequests, e.Status)
	assert.Equal(t, apierror.CodeRateLimitExceeded, e.Code)
}
