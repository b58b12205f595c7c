package report

import (
	"fmt"
	"strings"
)

// ValidationError is an error used to encode when the questionnaire
// is missing required fields. The model is never called in this case
type ValidationError struct {
	Fields []string
}

// NewValidationError constructs a new ValidationError
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{
		Fields: fields,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid report input: missing %s", strings.Join(e.Fields, ", "))
}

// GenerationError is an error used to encode when the model call failed
// or produced output that does not match the report shape
type GenerationError struct {
	Reason string
	Cause  error
}

// NewGenerationError constructs a new GenerationError
func NewGenerationError(reason string, cause error) *GenerationError {
	return &GenerationError{
		Reason: reason,
		Cause:  cause,
	}
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("report generation failed: %s", e.Reason)
	}
	return fmt.Sprintf("report generation failed: %s: %s", e.Reason, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
