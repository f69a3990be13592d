package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors shared by the application services.
var (
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrCategoryNotFound indicates that the category does not exist or is
	// not visible to the requesting user.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCardNotFound indicates that the card does not exist or is not
	// visible to the requesting user.
	ErrCardNotFound = errors.New("card not found")
)

// ServiceError wraps errors from the application services with context.
// Consumers differentiate error types with errors.Is/errors.As instead of
// string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
