package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced task does not exist.
var ErrNotFound = errors.New("task not found")

// ValidationError reports caller-supplied data that violates a field
// constraint. The caller can recover by resubmitting corrected input;
// the request is never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError reports an infrastructure failure in the backing store
// (unreachable database, failed query). It is scoped to a single
// request and never fatal to the process.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
