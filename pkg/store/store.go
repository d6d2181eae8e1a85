// Package store defines the narrow contract the workflow engine needs from
// the metadata store: read, create, patch and delete of one workflow
// metadata record per document.
package store

import (
	"context"

	"github.com/selvklart/docflow/pkg/models"
)

// Patch describes a partial update of a metadata record. Nil fields are
// left untouched. When ExpectedRevision is set the update only applies if
// the stored record still carries that revision; otherwise the store
// returns ErrRevisionConflict and changes nothing.
type Patch struct {
	State            *string
	Assignees        *[]string
	ExpectedRevision *int64
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.State == nil && p.Assignees == nil
}

// Store is the metadata store adapter. Implementations provide per-record
// atomic create/patch/delete; they carry no workflow business logic.
type Store interface {
	// Read returns the metadata record for a document, or (nil, nil) when
	// the document is not in workflow.
	Read(ctx context.Context, documentID string) (*models.Metadata, error)

	// Create adds a document to the workflow in the given initial state
	// with no assignees. Returns ErrMetadataExists when a record is
	// already present.
	Create(ctx context.Context, documentID, initialState string) (*models.Metadata, error)

	// Patch applies a partial update and returns the updated record.
	// Returns ErrMetadataNotFound when the document is not in workflow.
	Patch(ctx context.Context, documentID string, patch Patch) (*models.Metadata, error)

	// Delete removes a document from the workflow. Deleting an absent
	// record is a no-op, not an error.
	Delete(ctx context.Context, documentID string) error

	// ListByState returns all metadata records, optionally filtered to one
	// state. An empty state returns every record, ordered by creation time.
	ListByState(ctx context.Context, state string) ([]*models.Metadata, error)

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
