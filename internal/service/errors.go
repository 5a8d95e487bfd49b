package service

import (
	"errors"
	"fmt"
)

// Service sentinel errors. The API layer maps them to status codes.
var (
	// ErrSessionNotOwned indicates the session belongs to another candidate.
	// API layer should map this to HTTP 403 Forbidden.
	ErrSessionNotOwned = errors.New("session is owned by another candidate")

	// ErrTimeExpired indicates the session's time limit has passed and it
	// no longer accepts answers.
	// API layer should map this to HTTP 409 Conflict.
	ErrTimeExpired = errors.New("session time limit has expired")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapError wraps err in a ServiceError. Service sentinels are returned as is.
func wrapError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionNotOwned) || errors.Is(err, ErrTimeExpired) {
		return err
	}
	return &ServiceError{Service: service, Op: op, Err: err}
}
