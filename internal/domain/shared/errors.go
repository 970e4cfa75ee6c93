package shared

import "fmt"

// DomainError represents a business-rule violation detected by the domain layer.
// Every failure is a rejected operation, never a transient condition: callers
// surface the message to the user and block the submission until corrected.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Validation error codes shared by the financial computation core.
// The calculators and the stock adjuster reject invalid input at the point of
// detection; they never clamp, substitute defaults, or retry.
const (
	// ErrCodeInvalidLineItem marks a single line whose inputs violate an
	// invariant (non-positive quantity, negative rate, discount exceeding base).
	ErrCodeInvalidLineItem = "INVALID_LINE_ITEM"
	// ErrCodeInvalidDocument marks a document-level violation (empty item
	// list, document discount exceeding the computed subtotal).
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	// ErrCodeQuantityOutOfRange marks a stock adjustment quantity outside the
	// accepted range.
	ErrCodeQuantityOutOfRange = "QUANTITY_OUT_OF_RANGE"
	// ErrCodeFieldTooLong marks an optional stock adjustment field exceeding
	// its length bound; the message names the offending field.
	ErrCodeFieldTooLong = "FIELD_TOO_LONG"
	// ErrCodeInsufficientStock marks a reduction that would take on-hand
	// quantity below zero.
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)
