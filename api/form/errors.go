package form

// ValidationError is an error used to encode when a submitted form
// is malformed or missing a required field.
// Message is safe to return to the client
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError constructs a new ValidationError
func NewValidationError(field string, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}
