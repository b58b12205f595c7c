package db

import "fmt"

// InvalidIDError is an error used to encode when a given ID
// is not a well-formed store identifier
// (used to provide more detailed feedback
// and to use the correct status code)
type InvalidIDError struct {
	ID string
}

// NewInvalidIDError constructs a new InvalidIDError
func NewInvalidIDError(id string) *InvalidIDError {
	return &InvalidIDError{
		ID: id,
	}
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("given ID '%s' is not a valid identifier", e.ID)
}

// NotFoundError is an error used to encode when an ID isn't found
// for Delete operations
type NotFoundError struct {
	ID string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{
		ID: id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object with ID '%s' not found in the database",
		e.ID)
}

// UnavailableError is an error used to encode when the database
// could not be reached at all
type UnavailableError struct {
	Cause error
}

// NewUnavailableError constructs a new UnavailableError
func NewUnavailableError(cause error) *UnavailableError {
	return &UnavailableError{
		Cause: cause,
	}
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("database unavailable: %s", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
