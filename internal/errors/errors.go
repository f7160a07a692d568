package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is the kind of errors raised when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is the kind of errors raised when credentials or tokens are rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is the kind of errors raised when input breaks a domain rule.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden is the kind of errors raised when the requester does not own the resource.
	ErrForbidden = errors.New("forbidden")
)

// Error is a domain error. It matches its kind with errors.Is.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap exposes the kind.
func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel the error belongs to.
func (e *Error) Kind() error {
	return e.kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound error.
func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Unauthorized builds an ErrUnauthorized error.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// InvalidArgument builds an ErrInvalidArgument error.
func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

// Forbidden builds an ErrForbidden error.
func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors never leak their text.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, message(err), "NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, message(err), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidArgument):
		return NewHTTPError(http.StatusBadRequest, message(err), "INVALID_ARGUMENT")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, message(err), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

func message(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.msg
	}
	return err.Error()
}
