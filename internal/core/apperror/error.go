// Package apperror provides coded errors that map onto API responses.
// Every user-facing failure of report generation is an AppError; store
// failures travel wrapped and surface as internal errors.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal            = "INTERNAL_ERROR"
	CodeDatabase            = "DATABASE_ERROR"
	CodeRendererUnavailable = "RENDERER_UNAVAILABLE"

	// Validation errors (400)
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidDateRange = "INVALID_DATE_RANGE"

	// Report preconditions (422)
	CodeNoProducts  = "NO_PRODUCTS"
	CodeNoMonths    = "NO_MONTHS"
	CodeNoLocations = "NO_LOCATIONS"

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type of the service.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, ids, dates)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidDateRange reports a start date after the end date (400).
func NewInvalidDateRange(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidDateRange,
		Message:    "Start Date must be before End Date.",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"dateFrom": from, "dateTo": to},
	}
}

// NewPrecondition creates an error for a report that cannot be produced
// from the current data (422).
func NewPrecondition(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewNoProducts is returned when no product matches the filters.
func NewNoProducts() *AppError {
	return NewPrecondition(CodeNoProducts, "No products found with the given criteria.")
}

// NewNoMonths is returned when the date range yields no month buckets.
func NewNoMonths() *AppError {
	return NewPrecondition(CodeNoMonths, "No months found in the selected date range.")
}

// NewNoLocations is returned when no internal stock location is in scope.
func NewNoLocations() *AppError {
	return NewPrecondition(CodeNoLocations, "No stock locations found.")
}

// NewRendererUnavailable is returned when no spreadsheet writer is configured.
func NewRendererUnavailable() *AppError {
	return &AppError{
		Code:       CodeRendererUnavailable,
		Message:    "Spreadsheet writer is not available",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
