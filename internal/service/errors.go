package service

import (
	"errors"
	"fmt"

	"github.com/emrgen/resumectl/internal/credentials"
)

var (
	// ErrTableTimeout is returned when a table does not become active in time.
	ErrTableTimeout = errors.New("timed out waiting for table to become active")
	// ErrMalformedRecord is returned when a record does not match the entity it is written as.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrWriteFailed is returned when the backend rejects a write.
	ErrWriteFailed = errors.New("write failed")
	// ErrMissingParent is returned when a record references a parent that was not written.
	ErrMissingParent = errors.New("parent record was not written")
	// ErrBackendCapability is returned when the backend has no repository for a registered entity.
	ErrBackendCapability = errors.New("backend does not support entity")
	// ErrMissingTag is returned when cleanup is asked to match an empty tag.
	ErrMissingTag = errors.New("a tag is required")
	// ErrSameEnvironment is returned when a sync would read and write the same tables.
	ErrSameEnvironment = errors.New("source and target resolve to the same tables")
)

// AuthError is a classified backend authentication or availability failure.
type AuthError struct {
	Kind credentials.Kind
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("backend unavailable (%s): %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Guidance returns the next step for the operator.
func (e *AuthError) Guidance() string {
	return credentials.Guidance(e.Kind)
}
