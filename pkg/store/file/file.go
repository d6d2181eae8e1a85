// Package file provides a file-based metadata store for development and
// tests. One JSON file per document, guarded by a process-wide mutex.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/selvklart/docflow/pkg/models"
	"github.com/selvklart/docflow/pkg/store"
)

// Store implements store.Store on the local file system.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a file-based metadata store rooted at the given
// directory. Accepts both a plain path and a file:// URL.
func NewStore(root string) (*Store, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	if err := os.MkdirAll(cleanRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory %s: %w", cleanRoot, err)
	}

	return &Store{root: cleanRoot}, nil
}

func (s *Store) path(documentID string) string {
	return filepath.Join(s.root, url.PathEscape(documentID)+".json")
}

func (s *Store) readFile(documentID string) (*models.Metadata, error) {
	data, err := os.ReadFile(s.path(documentID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, store.NewMetadataError("Read", documentID, err)
	}

	var meta models.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, store.NewMetadataError("Read", documentID, err)
	}

	return &meta, nil
}

func (s *Store) writeFile(meta *models.Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return store.NewMetadataError("Write", meta.DocumentID, err)
	}

	if err := os.WriteFile(s.path(meta.DocumentID), data, 0o644); err != nil {
		return store.NewMetadataError("Write", meta.DocumentID, err)
	}

	return nil
}

// Read returns the metadata record for a document, or (nil, nil) when
// absent.
func (s *Store) Read(_ context.Context, documentID string) (*models.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readFile(documentID)
}

// Create adds a document to the workflow in the given initial state.
func (s *Store) Create(_ context.Context, documentID, initialState string) (*models.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readFile(documentID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, store.NewMetadataError("Create", documentID, store.ErrMetadataExists)
	}

	now := time.Now().UTC()
	meta := &models.Metadata{
		DocumentID: documentID,
		State:      initialState,
		Assignees:  []string{},
		Revision:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.writeFile(meta); err != nil {
		return nil, err
	}

	return meta, nil
}

// Patch applies a partial update to the metadata record.
func (s *Store) Patch(_ context.Context, documentID string, patch store.Patch) (*models.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readFile(documentID)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		return nil, store.NewMetadataError("Patch", documentID, store.ErrMetadataNotFound)
	}

	if patch.ExpectedRevision != nil && meta.Revision != *patch.ExpectedRevision {
		return nil, store.NewMetadataError("Patch", documentID, store.ErrRevisionConflict)
	}

	if patch.State != nil {
		meta.State = *patch.State
	}

	if patch.Assignees != nil {
		meta.Assignees = slices.Clone(*patch.Assignees)
	}

	meta.Revision++
	meta.UpdatedAt = time.Now().UTC()

	if err := s.writeFile(meta); err != nil {
		return nil, err
	}

	return meta, nil
}

// Delete removes a document's metadata record. Absent records are a no-op.
func (s *Store) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(documentID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return store.NewMetadataError("Delete", documentID, err)
	}

	return nil
}

// ListByState returns all metadata records, optionally filtered to one
// state, ordered by creation time.
func (s *Store) ListByState(_ context.Context, state string) ([]*models.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata directory: %w", err)
	}

	records := make([]*models.Metadata, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		var meta models.Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		if state != "" && meta.State != state {
			continue
		}

		records = append(records, &meta)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

// HealthCheck verifies the root directory still exists.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. There is nothing to clean up for
// the file store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
