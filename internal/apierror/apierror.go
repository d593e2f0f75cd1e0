// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// The front-end surfaces Detail verbatim, so messages must be human-readable.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// Error codes for the domain error taxonomy. Business-rule violations are
// detected before any write and abort the whole transaction.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeConflict            = "CONFLICT"
	CodeOverReturn          = "OVER_RETURN"
	CodeInsufficientPayment = "INSUFFICIENT_PAYMENT"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeNotFound            = "NOT_FOUND"
)

// Error is a typed domain error carrying its HTTP status mapping.
// Services return *Error values; handlers translate them via errors.As.
type Error struct {
	Code   string `json:"-"`
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

func newf(code string, status int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Status: status, Detail: fmt.Sprintf(format, args...)}
}

// Validation reports missing or out-of-range input (quantity bounds,
// same-store transfer, etc.).
func Validation(format string, args ...interface{}) *Error {
	return newf(CodeValidation, http.StatusBadRequest, format, args...)
}

// Conflict reports a duplicate inventory key (HTTP 409).
func Conflict(format string, args ...interface{}) *Error {
	return newf(CodeConflict, http.StatusConflict, format, args...)
}

// OverReturn reports a return quantity exceeding what is available to return.
func OverReturn(format string, args ...interface{}) *Error {
	return newf(CodeOverReturn, http.StatusBadRequest, format, args...)
}

// InsufficientPayment reports payments summing below the grand total.
func InsufficientPayment(format string, args ...interface{}) *Error {
	return newf(CodeInsufficientPayment, http.StatusBadRequest, format, args...)
}

// InvalidQuantity reports an operation that would drive stock negative
// where that is disallowed.
func InvalidQuantity(format string, args ...interface{}) *Error {
	return newf(CodeInvalidQuantity, http.StatusBadRequest, format, args...)
}

// NotFound reports a missing sale, inventory record, or other entity.
func NotFound(format string, args ...interface{}) *Error {
	return newf(CodeNotFound, http.StatusNotFound, format, args...)
}
