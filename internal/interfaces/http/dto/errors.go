package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeTabClosed          = "ERR_TAB_CLOSED"
	ErrCodeTabNotSettled      = "ERR_TAB_NOT_SETTLED"
	ErrCodeUnmatchedProduct   = "ERR_UNMATCHED_PRODUCT"
	ErrCodeAmbiguousVariation = "ERR_AMBIGUOUS_VARIATION"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeTabClosed:          http.StatusUnprocessableEntity,
	ErrCodeTabNotSettled:      http.StatusUnprocessableEntity,
	ErrCodeUnmatchedProduct:   http.StatusUnprocessableEntity,
	ErrCodeAmbiguousVariation: http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"TAB_CLOSED":          ErrCodeTabClosed,
	"TAB_NOT_SETTLED":     ErrCodeTabNotSettled,
	"UNMATCHED_PRODUCT":   ErrCodeUnmatchedProduct,
	"AMBIGUOUS_VARIATION": ErrCodeAmbiguousVariation,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"INVALID_TAB":         ErrCodeInvalidInput,
	"INVALID_TABLE":       ErrCodeInvalidInput,
	"INVALID_PAYMENT":     ErrCodeInvalidInput,
	"INVALID_DISCOUNT":    ErrCodeInvalidInput,
	"INVALID_PRODUCT":     ErrCodeInvalidInput,
	"INVALID_QUANTITY":    ErrCodeInvalidInput,
	"INVALID_PRICE":       ErrCodeInvalidInput,
	"INVALID_STOCK_KEY":   ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
