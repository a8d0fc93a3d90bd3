package shared

import "errors"

// DomainError is an error raised by domain rules. Code is stable and is
// what the HTTP layer maps to a status; Message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that errors built
// with NewDomainError(ErrX.Code, "detail") still match errors.Is(err, ErrX).
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound                  = "NOT_FOUND"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeInvalidStatus             = "INVALID_STATUS"
	CodeInvalidPaymentTerms       = "INVALID_PAYMENT_TERMS"
	CodeInvalidTransitionSequence = "INVALID_TRANSITION_SEQUENCE"
	CodeInvalidSnapshot           = "INVALID_SNAPSHOT"
	CodeConcurrencyConflict       = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound                  = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput              = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidStatus             = NewDomainError(CodeInvalidStatus, "Unknown status value")
	ErrInvalidPaymentTerms       = NewDomainError(CodeInvalidPaymentTerms, "Payment terms are incomplete or inconsistent")
	ErrInvalidTransitionSequence = NewDomainError(CodeInvalidTransitionSequence, "Transition no longer requires payment terms for the current status")
	ErrInvalidSnapshot           = NewDomainError(CodeInvalidSnapshot, "Snapshot is structurally invalid")
	ErrConcurrencyConflict       = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)
