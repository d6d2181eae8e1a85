package models

import (
	"slices"
	"time"
)

// Metadata is the per-document workflow record. Its existence is the sole
// signal that a document is in workflow: it is created by begin, mutated by
// assign and advance, and deleted by complete or cancel.
type Metadata struct {
	DocumentID string    `json:"document_id" validate:"required"`
	State      string    `json:"state"       validate:"required"`
	Assignees  []string  `json:"assignees"`
	Revision   int64     `json:"revision"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAssigned reports whether the given principal ID is among the assignees.
func (m *Metadata) IsAssigned(principalID string) bool {
	return slices.Contains(m.Assignees, principalID)
}

// Clone returns a deep copy safe to mutate.
func (m *Metadata) Clone() *Metadata {
	clone := *m
	clone.Assignees = slices.Clone(m.Assignees)

	return &clone
}
