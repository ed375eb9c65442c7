package shared

// DomainError carries a stable machine code alongside a human message.
// The HTTP layer maps codes to status codes and API error identifiers.
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

// Sentinel errors shared across the domain packages.
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidTransition = NewDomainError("INVALID_TRANSITION", "Transition not allowed from current state")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConflict          = NewDomainError("CONFLICT", "Operation conflicts with existing state")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)
