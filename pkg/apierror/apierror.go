// Package apierror provides standardized API error handling.
// These error types can be used across all API handlers for consistent
// error responses.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Code represents an error code.
type Code string

// Standard error codes.
const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeTenantRequired     Code = "TENANT_REQUIRED"
	CodeTenantMismatch     Code = "TENANT_MISMATCH"
	CodeMembershipInactive Code = "MEMBERSHIP_INACTIVE"
)

// Error represents a standardized API error.
type Error struct {
	// HTTP status code
	Status int `json:"-"`

	// Machine-readable error code
	Code Code `json:"code"`

	// Human-readable error message
	Message string `json:"message"`

	// Additional error details (optional)
	Details any `json:"details,omitempty"`

	// Internal error (not exposed to client)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Response represents the error response structure.
type Response struct {
	Error     string `json:"error"`
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ToResponse converts the error to a response structure.
func (e *Error) ToResponse() Response {
	return Response{
		Error:   string(e.Code),
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// WriteJSON writes the error as JSON to the response writer.
func (e *Error) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.ToResponse())
}

// New creates a new API error.
func New(status int, code Code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden creates a 403 error. The message stays generic so a
// forbidden response never reveals whether the target exists under a
// different tenant.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, CodeForbidden, message)
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

// Conflict creates a 409 error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, CodeConflict, message)
}

// ValidationFailed creates a 422 error with field details.
func ValidationFailed(details any) *Error {
	e := New(http.StatusUnprocessableEntity, CodeValidationFailed, "Validation failed")
	e.Details = details
	return e
}

// InternalError creates a 500 error. The wrapped error is logged, not
// exposed to the client.
func InternalError(err error) *Error {
	e := New(http.StatusInternalServerError, CodeInternalError, "An internal error occurred")
	e.Err = err
	return e
}

// RateLimitExceeded creates a 429 error.
func RateLimitExceeded() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
}

// TenantRequired creates a 400 error for operations that need a bound
// tenant context.
func TenantRequired() *Error {
	return New(http.StatusBadRequest, CodeTenantRequired, "A tenant context is required for this operation")
}

// FromDomain maps a domain error to an API error. Scope-filtered rows
// map to a generic not-found response indistinguishable from true
// non-existence; authorization failures stay generic for the same
// reason.
func FromDomain(err error) *Error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, shared.ErrTenantRequired):
		return TenantRequired()
	case errors.Is(err, shared.ErrTenantMismatch):
		return New(http.StatusForbidden, CodeTenantMismatch, "You do not have access to that tenant")
	case errors.Is(err, shared.ErrMembershipInactive):
		return New(http.StatusForbidden, CodeMembershipInactive, "You do not have access to that tenant")
	case errors.Is(err, shared.ErrForbidden):
		return Forbidden("Access denied")
	case errors.Is(err, shared.ErrUnauthorized):
		return Unauthorized("Authentication required")
	case errors.Is(err, shared.ErrAlreadyExists):
		return Conflict("Resource already exists")
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		return BadRequest(err.Error())
	default:
		return InternalError(err)
	}
}
