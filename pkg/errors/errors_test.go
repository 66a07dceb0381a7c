package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantCode   string
	}{
		{"invalid input", NewInvalidInputError("missing symptoms"), http.StatusBadRequest, CodeInvalidInput},
		{"upstream", NewUpstreamError("provider returned 500"), http.StatusBadGateway, CodeUpstreamError},
		{"malformed response", NewMalformedResponseError("no JSON found"), http.StatusBadRequest, CodeMalformedResponse},
		{"configuration", NewConfigurationError("database not configured"), http.StatusServiceUnavailable, CodeConfiguration},
		{"permission denied", NewPermissionDeniedError("microphone access refused"), http.StatusForbidden, CodePermissionDenied},
		{"not found", NewNotFoundError("consultation not found"), http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})

	t.Run("AppError passes through", func(t *testing.T) {
		orig := NewInvalidInputError("bad")
		assert.Same(t, orig, FromError(orig))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		appErr := FromError(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
		assert.Equal(t, CodeInternal, appErr.Code)
		assert.Contains(t, appErr.Message, "boom")
	})
}

func TestIs(t *testing.T) {
	err := NewUpstreamError("timeout")
	assert.True(t, Is(err, CodeUpstreamError))
	assert.False(t, Is(err, CodeInvalidInput))
	assert.False(t, Is(errors.New("plain"), CodeUpstreamError))
}

func TestWithDetails(t *testing.T) {
	err := NewInvalidInputError("validation failed").WithDetails(map[string]string{"field": "symptoms"})
	assert.NotNil(t, err.Details)
	assert.Equal(t, "[INVALID_INPUT] validation failed", err.Error())
}
