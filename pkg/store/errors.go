package store

import (
	"errors"
	"fmt"
)

// Standard store error types that all implementations should use.
var (
	// ErrMetadataNotFound indicates no metadata record exists for the
	// document.
	ErrMetadataNotFound = errors.New("workflow metadata not found")

	// ErrMetadataExists indicates a metadata record already exists for the
	// document.
	ErrMetadataExists = errors.New("workflow metadata already exists")

	// ErrRevisionConflict indicates a patch carried an expected revision
	// that no longer matches the stored record.
	ErrRevisionConflict = errors.New("workflow metadata revision conflict")
)

// MetadataError wraps store errors with the operation and document they
// belong to.
type MetadataError struct {
	Op         string // Operation being performed (e.g. "Read", "Patch")
	DocumentID string
	Err        error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s failed for document %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

func (e *MetadataError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewMetadataError creates a new metadata error with context.
func NewMetadataError(op, documentID string, err error) *MetadataError {
	return &MetadataError{
		Op:         op,
		DocumentID: documentID,
		Err:        err,
	}
}

// IsNotFound checks if an error indicates a missing metadata record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMetadataNotFound)
}

// IsAlreadyExists checks if an error indicates a duplicate metadata record.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrMetadataExists)
}

// IsRevisionConflict checks if an error indicates a lost optimistic
// concurrency race.
func IsRevisionConflict(err error) bool {
	return errors.Is(err, ErrRevisionConflict)
}
