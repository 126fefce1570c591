package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
)

// Business rule error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
	ErrCodeConflictingReturn  = "ERR_CONFLICTING_RETURN"
	ErrCodeDuplicateRequest   = "ERR_DUPLICATE_REQUEST"
	ErrCodeTransactionAborted = "ERR_TRANSACTION_ABORTED"
)

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_REFERENCE":   ErrCodeBadRequest,
	"VALIDATION_ERROR":    ErrCodeValidation,
	"INVALID_STATE":       ErrCodeInvalidState,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"CONFLICTING_RETURN":  ErrCodeConflictingReturn,
	"TRANSACTION_ABORTED": ErrCodeTransactionAborted,
}

// errorCodeHTTPStatus maps API error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeConflictingReturn:  http.StatusConflict,
	ErrCodeDuplicateRequest:   http.StatusConflict,
	ErrCodeTransactionAborted: http.StatusInternalServerError,
}

// NormalizeErrorCode translates a domain error code to its API error code
func NormalizeErrorCode(domainCode string) string {
	if code, ok := domainCodeMapping[domainCode]; ok {
		return code
	}
	return ErrCodeInternal
}

// GetHTTPStatus returns the HTTP status code for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
