package provider

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates a client method was called on a provider
// whose endpoint configuration is incomplete.
var ErrNotConfigured = errors.New("provider not configured")

// ServiceError describes a non-success response or transport failure
// from the embedding or chat service.
type ServiceError struct {
	operation  string
	statusCode int
	message    string
	err        error
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation string, statusCode int, message string, err error) *ServiceError {
	return &ServiceError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		err:        err,
	}
}

// Operation returns the failed operation name.
func (e *ServiceError) Operation() string { return e.operation }

// StatusCode returns the HTTP status, or 0 for transport failures.
func (e *ServiceError) StatusCode() int { return e.statusCode }

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("%s: %s", e.operation, e.message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error { return e.err }
