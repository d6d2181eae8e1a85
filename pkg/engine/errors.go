// Package engine orchestrates the document workflow: it reads metadata
// through the store, asks the authorizer for transition verdicts and
// applies approved transitions.
package engine

import (
	"errors"
	"fmt"
)

// Precondition errors. These indicate an operation that is currently not
// applicable, not a fault: the UI renders them as disabled actions.
var (
	// ErrAlreadyInWorkflow indicates begin was called for a document that
	// already has a metadata record.
	ErrAlreadyInWorkflow = errors.New("document is already in workflow")

	// ErrNoUnpublishedChanges indicates begin was called for a document
	// with nothing to review.
	ErrNoUnpublishedChanges = errors.New("document has no unpublished changes")

	// ErrNotInWorkflow indicates the operation needs a metadata record and
	// none exists.
	ErrNotInWorkflow = errors.New("document is not in workflow")

	// ErrNotInLastState indicates complete was called before the document
	// reached the terminal state.
	ErrNotInLastState = errors.New("document has not reached the last workflow state")

	// ErrUnknownTargetState indicates an advance target that is not part
	// of the catalog.
	ErrUnknownTargetState = errors.New("target state is not part of the workflow")
)

// Integrity and collaborator errors.
var (
	// ErrUnknownState indicates a stored metadata record references a
	// state missing from the catalog. This is a data integrity fault, not
	// a precondition.
	ErrUnknownState = errors.New("stored workflow state is not part of the catalog")

	// ErrReleaseFailed indicates the metadata record was already deleted
	// but the release collaborator failed: the document left the workflow
	// without being published. Must be reported distinctly so an operator
	// can publish manually.
	ErrReleaseFailed = errors.New("workflow completed but document release failed")
)

// OperationError wraps engine errors with the operation and document they
// belong to.
type OperationError struct {
	Op         string
	DocumentID string
	Err        error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed for document %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newOperationError(op, documentID string, err error) *OperationError {
	return &OperationError{Op: op, DocumentID: documentID, Err: err}
}

// IsPrecondition checks if an error is an expected precondition failure
// rather than a fault.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyInWorkflow) ||
		errors.Is(err, ErrNoUnpublishedChanges) ||
		errors.Is(err, ErrNotInWorkflow) ||
		errors.Is(err, ErrNotInLastState) ||
		errors.Is(err, ErrUnknownTargetState)
}

// IsIntegrity checks if an error indicates corrupted workflow data.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrUnknownState)
}

// IsReleaseFailure checks if an error indicates the delete-then-release
// sequence broke after the delete.
func IsReleaseFailure(err error) bool {
	return errors.Is(err, ErrReleaseFailed)
}
