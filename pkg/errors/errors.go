package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Error codes for the failure taxonomy. Every service-layer failure maps to
// exactly one of these; handlers convert them to an HTTP status + JSON body.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeAuthRequired      = "AUTH_REQUIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Stack:      string(debug.Stack()),
	}
}

// NewInvalidInputError creates a 400 error for a request that fails a
// precondition. The caller must correct the input; no retry will help.
func NewInvalidInputError(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeInvalidInput, message)
}

// NewUpstreamError creates a 502 error carrying the dependency's failure text.
// Safe for the caller to retry with backoff.
func NewUpstreamError(message string) *AppError {
	return NewError(http.StatusBadGateway, CodeUpstreamError, message)
}

// NewMalformedResponseError creates a 400 error for dependency output that
// does not fit the contract. The service never fabricates a partial result.
func NewMalformedResponseError(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeMalformedResponse, message)
}

// NewConfigurationError creates a 503 error for a feature whose required
// external credentials are absent. Fatal for the affected feature only.
func NewConfigurationError(message string) *AppError {
	return NewError(http.StatusServiceUnavailable, CodeConfiguration, message)
}

// NewPermissionDeniedError creates a 403 error for a refused device or
// resource access.
func NewPermissionDeniedError(message string) *AppError {
	return NewError(http.StatusForbidden, CodePermissionDenied, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(code string, message string) *AppError {
	return NewError(http.StatusUnauthorized, code, message)
}

// NewForbiddenError creates a 403 Forbidden error
func NewForbiddenError(code string, message string) *AppError {
	return NewError(http.StatusForbidden, code, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string) *AppError {
	return NewError(http.StatusNotFound, CodeNotFound, message)
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *AppError {
	return NewError(http.StatusConflict, CodeConflict, message)
}

// NewBadRequestError creates a 400 Bad Request error with an explicit code
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(message string) *AppError {
	return NewError(http.StatusInternalServerError, CodeInternal, message)
}

// Is checks if the target error carries the given error code
func Is(err error, code string) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == code
}

// FromError converts a standard error to an AppError.
// If the error is already an AppError, it is returned as-is.
// Otherwise, it is wrapped as an internal server error.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalServerError(
		fmt.Sprintf("An unexpected error occurred: %s", err.Error()),
	)
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an AppError, returns CodeInternal if not an AppError
func GetErrorCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// GetErrorMessage extracts the error message, returns original error message if not an AppError
func GetErrorMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return err.Error()
}
