package shared

// DomainError is a categorized error raised by domain or application
// logic. The code is stable and safe to map onto transport responses.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across the domain packages. Compare with
// errors.Is so wrapped variants still match.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Input failed validation")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnsupportedPlatform = NewDomainError("UNSUPPORTED_PLATFORM", "Platform is not registered")
	ErrUpstreamAdapter     = NewDomainError("UPSTREAM_ADAPTER_ERROR", "Platform adapter call failed")
	ErrPersistence         = NewDomainError("PERSISTENCE_ERROR", "Store write failed")
)
