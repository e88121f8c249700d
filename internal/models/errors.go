// internal/models/errors.go
package models

import "errors"

var (
	// ErrValidation is returned when caller-supplied task data breaks an invariant
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a task id is unknown to the collection
	ErrNotFound = errors.New("task not found")
	// ErrPersistence wraps failures of the durable store
	ErrPersistence = errors.New("persistence failed")
)
