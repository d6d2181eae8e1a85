package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/selvklart/docflow/pkg/models"
	"github.com/selvklart/docflow/pkg/store"
)

const metadataColumns = `
	document_id
  , state
  , assignees
  , revision
  , created_at
  , updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row rowScanner) (*models.Metadata, error) {
	var (
		meta         models.Metadata
		assigneesRaw []byte
	)

	err := row.Scan(
		&meta.DocumentID,
		&meta.State,
		&assigneesRaw,
		&meta.Revision,
		&meta.CreatedAt,
		&meta.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(assigneesRaw, &meta.Assignees)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assignees: %w", err)
	}

	return &meta, nil
}

// Read returns the metadata record for a document, or (nil, nil) when
// absent.
func (s *Store) Read(ctx context.Context, documentID string) (*models.Metadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM workflow_metadata WHERE document_id = $1`

	meta, err := scanMetadata(s.db.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, store.NewMetadataError("Read", documentID, err)
	}

	return meta, nil
}

// Create inserts a metadata record for a document entering the workflow.
func (s *Store) Create(ctx context.Context, documentID, initialState string) (*models.Metadata, error) {
	query := `
		INSERT INTO workflow_metadata (document_id, state, assignees, revision, created_at, updated_at)
		VALUES ($1, $2, '[]', 1, $3, $3)
		ON CONFLICT (document_id) DO NOTHING
		RETURNING ` + metadataColumns

	now := time.Now().UTC()

	meta, err := scanMetadata(s.db.QueryRowContext(ctx, query, documentID, initialState, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NewMetadataError("Create", documentID, store.ErrMetadataExists)
		}

		return nil, store.NewMetadataError("Create", documentID, err)
	}

	return meta, nil
}

// Patch applies a partial update. When the patch carries an expected
// revision the update is guarded by it, so a concurrent writer loses with
// ErrRevisionConflict instead of silently overwriting.
func (s *Store) Patch(ctx context.Context, documentID string, patch store.Patch) (*models.Metadata, error) {
	if patch.IsEmpty() {
		return s.readForPatch(ctx, documentID)
	}

	query := `
		UPDATE workflow_metadata
		SET state = COALESCE($2, state)
		  , assignees = COALESCE($3::jsonb, assignees)
		  , revision = revision + 1
		  , updated_at = $4
		WHERE document_id = $1
	`

	var assigneesArg any

	if patch.Assignees != nil {
		encoded, err := json.Marshal(*patch.Assignees)
		if err != nil {
			return nil, store.NewMetadataError("Patch", documentID, err)
		}

		assigneesArg = string(encoded)
	}

	args := []any{documentID, patch.State, assigneesArg, time.Now().UTC()}

	if patch.ExpectedRevision != nil {
		query += ` AND revision = $5`
		args = append(args, *patch.ExpectedRevision)
	}

	query += ` RETURNING ` + metadataColumns

	meta, err := scanMetadata(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.patchMissError(ctx, documentID, patch)
		}

		return nil, store.NewMetadataError("Patch", documentID, err)
	}

	return meta, nil
}

// patchMissError distinguishes a missing record from a lost revision race.
func (s *Store) patchMissError(ctx context.Context, documentID string, patch store.Patch) error {
	if patch.ExpectedRevision == nil {
		return store.NewMetadataError("Patch", documentID, store.ErrMetadataNotFound)
	}

	existing, err := s.Read(ctx, documentID)
	if err != nil {
		return store.NewMetadataError("Patch", documentID, err)
	}

	if existing == nil {
		return store.NewMetadataError("Patch", documentID, store.ErrMetadataNotFound)
	}

	return store.NewMetadataError("Patch", documentID, store.ErrRevisionConflict)
}

func (s *Store) readForPatch(ctx context.Context, documentID string) (*models.Metadata, error) {
	meta, err := s.Read(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		return nil, store.NewMetadataError("Patch", documentID, store.ErrMetadataNotFound)
	}

	return meta, nil
}

// Delete removes a document's metadata record. Absent records are a no-op.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workflow_metadata WHERE document_id = $1`, documentID)
	if err != nil {
		return store.NewMetadataError("Delete", documentID, err)
	}

	return nil
}

// ListByState returns all metadata records, optionally filtered to one
// state, ordered by creation time.
func (s *Store) ListByState(ctx context.Context, state string) ([]*models.Metadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM workflow_metadata`
	args := []any{}

	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, state)
	}

	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow metadata: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.Metadata, 0)

	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow metadata: %w", err)
		}

		records = append(records, meta)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflow metadata: %w", err)
	}

	return records, nil
}
