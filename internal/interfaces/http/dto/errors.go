package dto

import "net/http"

// Error codes returned on the wire. Format: ERR_<DESCRIPTION>

const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidTenant is used when X-Tenant-ID is missing or not a UUID
	ErrCodeInvalidTenant = "ERR_INVALID_TENANT"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
)

// Quote lifecycle and audit codes
const (
	ErrCodeInvalidStatus             = "ERR_INVALID_STATUS"
	ErrCodeInvalidPaymentTerms       = "ERR_INVALID_PAYMENT_TERMS"
	ErrCodeInvalidTransitionSequence = "ERR_INVALID_TRANSITION_SEQUENCE"
	ErrCodeConcurrencyConflict       = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidSnapshot           = "ERR_INVALID_SNAPSHOT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInvalidTenant: http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,

	ErrCodeInvalidStatus:       http.StatusBadRequest,
	ErrCodeInvalidPaymentTerms: http.StatusBadRequest,
	// The quote moved on between the two calls of a gated transition
	ErrCodeInvalidTransitionSequence: http.StatusConflict,
	ErrCodeConcurrencyConflict:       http.StatusConflict,
	ErrCodeInvalidSnapshot:           http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes to wire codes
var domainErrorCodes = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATUS":              ErrCodeInvalidStatus,
	"INVALID_PAYMENT_TERMS":       ErrCodeInvalidPaymentTerms,
	"INVALID_TRANSITION_SEQUENCE": ErrCodeInvalidTransitionSequence,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"INVALID_SNAPSHOT":            ErrCodeInvalidSnapshot,
}

// NormalizeErrorCode converts a domain error code to its wire code.
// Codes already in wire format, or unknown, are returned as is.
func NormalizeErrorCode(code string) string {
	if wire, ok := domainErrorCodes[code]; ok {
		return wire
	}
	return code
}
