package shared

// DomainError represents a domain-level error
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

// Is matches domain errors by code so that errors.Is works against the
// sentinels below even when a new message was attached.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidReference   = NewDomainError("INVALID_REFERENCE", "Supplied ID is not a valid identifier")
	ErrValidation         = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrConflictingReturn  = NewDomainError("CONFLICTING_RETURN", "Invoice has returns recorded against it")
	ErrTransactionAborted = NewDomainError("TRANSACTION_ABORTED", "Transaction aborted, no changes were persisted")
)
