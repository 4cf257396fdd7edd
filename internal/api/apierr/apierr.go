// Package apierr turns domain errors into the API error envelope. Every 4xx
// and 5xx response goes through it so status codes and stable codes are
// decided in one place and internal details never reach the client.
package apierr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// Stable error codes. Clients switch on these, never on messages.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeRoleNotFound       = "ROLE_NOT_FOUND"
	CodeDuplicateRole      = "DUPLICATE_ROLE"
	CodeForbidden          = "FORBIDDEN"
	CodeProtectedResource  = "PROTECTED_RESOURCE"
	CodeInvalidPermission  = "INVALID_PERMISSION"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConfiguration      = "CONFIGURATION_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Response is the JSON error envelope.
type Response struct {
	Code  string `json:"code" example:"FORBIDDEN"`
	Error string `json:"error" example:"access forbidden: missing permission products.delete"`
}

// Error is an error that already knows how it should be rendered.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap keeps cause for logging while rendering status, code and message.
func Wrap(cause error, status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Response renders the envelope.
func (e *Error) Response() Response {
	return Response{Code: e.Code, Error: e.Message}
}

// Validation reports a request body that failed struct validation.
func Validation(err error) *Error {
	return Wrap(err, http.StatusUnprocessableEntity, CodeValidation, err.Error())
}

// BadRequest reports a body or parameter that could not be parsed.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized reports a missing or unusable session.
func Unauthorized(code, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

// FromDomain maps a domain error. ok is false for errors that are not part of
// the domain taxonomy; those must be logged and rendered as a plain 500.
func FromDomain(err error) (apiErr *Error, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	switch {
	// ErrWrongPassword wraps ErrInvalidCredentials, so it is checked first.
	case errors.Is(err, domain.ErrWrongPassword):
		return Wrap(err, http.StatusUnauthorized, CodeInvalidCredentials, "current password is incorrect"), true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return Wrap(err, http.StatusBadRequest, CodeInvalidCredentials, "invalid email or password"), true
	case errors.Is(err, domain.ErrDuplicateEmail):
		return Wrap(err, http.StatusBadRequest, CodeDuplicateEmail, "email already registered"), true
	case errors.Is(err, domain.ErrAccountDisabled):
		return Wrap(err, http.StatusForbidden, CodeAccountDisabled, "account disabled"), true
	case errors.Is(err, domain.ErrInvalidToken):
		return Wrap(err, http.StatusUnauthorized, CodeInvalidToken, "invalid or expired token"), true
	case errors.Is(err, domain.ErrUserNotFound):
		return Wrap(err, http.StatusNotFound, CodeUserNotFound, "user not found"), true
	case errors.Is(err, domain.ErrRoleNotFound):
		return Wrap(err, http.StatusNotFound, CodeRoleNotFound, "role not found"), true
	case errors.Is(err, domain.ErrDuplicateRole):
		return Wrap(err, http.StatusConflict, CodeDuplicateRole, "a role with this name or slug already exists"), true
	case errors.Is(err, domain.ErrForbidden):
		return Wrap(err, http.StatusForbidden, CodeForbidden, err.Error()), true
	case errors.Is(err, domain.ErrProtectedResource):
		return Wrap(err, http.StatusBadRequest, CodeProtectedResource, err.Error()), true
	case errors.Is(err, domain.ErrInvalidPermission):
		return Wrap(err, http.StatusBadRequest, CodeInvalidPermission, err.Error()), true
	case errors.Is(err, domain.ErrInvalidInput):
		return Wrap(err, http.StatusUnprocessableEntity, CodeValidation, err.Error()), true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return Wrap(err, http.StatusTooManyRequests, CodeTooManyAttempts, "too many failed login attempts, try again later"), true
	case errors.Is(err, domain.ErrConfiguration):
		return Wrap(err, http.StatusInternalServerError, CodeConfiguration, "server is not configured correctly"), true
	}
	return nil, false
}

// Internal is the generic 500 rendered for unexpected errors.
func Internal(err error) *Error {
	return Wrap(err, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// CodeForStatus names framework-level errors (routing, binding) that carry
// only an HTTP status.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusTooManyRequests:
		return CodeTooManyAttempts
	case http.StatusServiceUnavailable:
		return CodeServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
