package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by code and message so wrapped copies created
// with NewDomainErrorWithCause still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeMalformed     = "MALFORMED"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidChunkLength = NewDomainError(ErrCodeValidation, "chunk length must be positive")
	ErrInvalidCategory    = NewDomainError(ErrCodeValidation, "unknown attribute category")
	ErrInvalidYear        = NewDomainError(ErrCodeValidation, "invalid fiscal year")
	ErrMissingClient      = NewDomainError(ErrCodeValidation, "language service client is required")
	ErrInvalidScreenRule  = NewDomainError(ErrCodeValidation, "invalid screen rule")
)

// Not found errors
var (
	ErrFilingNotFound       = NewDomainError(ErrCodeNotFound, "filing not found")
	ErrDistributionNotFound = NewDomainError(ErrCodeNotFound, "attribute distribution not found")
	ErrObjectNotFound       = NewDomainError(ErrCodeNotFound, "object not found")
	ErrRunNotFound          = NewDomainError(ErrCodeNotFound, "analysis run not found")
)

// Malformed data errors
var (
	ErrMalformedRecord  = NewDomainError(ErrCodeMalformed, "malformed attribute record")
	ErrFilingUnreadable = NewDomainError(ErrCodeMalformed, "filing text could not be read")
	ErrMalformedIndex   = NewDomainError(ErrCodeMalformed, "malformed filing index")
)

// ErrResultUnavailable marks a language-service call that produced no usable payload.
var ErrResultUnavailable = NewDomainError(ErrCodeUnavailable, "language service returned no result")
