package helper

import "fmt"

// Error wraps an underlying error with the action that failed
type Error struct {
	Action string
	Err    error
}

// NewError creates a new wrapped error for the given action
func NewError(action string, err error) *Error {
	return &Error{Action: action, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("error in %v: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}
