package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrValidation       ErrorCode = "VALIDATION"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrForbidden        ErrorCode = "FORBIDDEN"
	ErrInvalidOperation ErrorCode = "INVALID_OPERATION"
	ErrConflict         ErrorCode = "CONFLICT"
	ErrInternal         ErrorCode = "INTERNAL"
)

// Error is a typed failure surfaced to the HTTP layer so every rejected
// precondition maps to a precise status code and message.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string) Error {
	return Error{Code: code, Message: message}
}

func Validation(message string) Error       { return New(ErrValidation, message) }
func NotFound(message string) Error         { return New(ErrNotFound, message) }
func Forbidden(message string) Error        { return New(ErrForbidden, message) }
func InvalidOperation(message string) Error { return New(ErrInvalidOperation, message) }
func Conflict(message string) Error         { return New(ErrConflict, message) }
func Internal(message string) Error         { return New(ErrInternal, message) }

// Code extracts the error code, defaulting to ErrInternal for untyped errors.
func Code(err error) ErrorCode {
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func Is(err error, code ErrorCode) bool {
	return Code(err) == code
}

// MapErrorToHTTPStatus translates a typed error into the HTTP status the
// controllers respond with.
func MapErrorToHTTPStatus(err error) int {
	switch Code(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrInvalidOperation:
		return http.StatusUnprocessableEntity
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
