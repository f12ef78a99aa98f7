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

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrTabClosed          = NewDomainError("TAB_CLOSED", "Tab is closed and cannot be modified")
	ErrTabNotSettled      = NewDomainError("TAB_NOT_SETTLED", "Tab has an outstanding balance")
	ErrUnmatchedProduct   = NewDomainError("UNMATCHED_PRODUCT", "Product could not be matched against the catalog")
	ErrAmbiguousVariation = NewDomainError("AMBIGUOUS_VARIATION", "Product requires a variation choice")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)
