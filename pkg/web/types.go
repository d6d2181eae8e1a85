// Package web provides HTTP handlers and REST API endpoints for document
// workflow management.
package web

import "github.com/selvklart/docflow/pkg/models"

// BeginWorkflowRequest represents the request body for placing a document
// in the workflow.
type BeginWorkflowRequest struct {
	// HasUnpublishedChanges is reported by the caller, which owns the
	// document content. A document without unpublished changes cannot
	// begin.
	HasUnpublishedChanges bool `json:"hasUnpublishedChanges"`
}

// AssigneesRequest represents the request body for adding or removing
// assignees on a document.
type AssigneesRequest struct {
	Assignees []string `json:"assignees" validate:"required,min=1,dive,required"`
}

// AdvanceRequest represents the request body for moving a document to
// another workflow state.
type AdvanceRequest struct {
	TargetState string `json:"targetState" validate:"required"`
}

// AdvanceResponse represents the outcome of an advance attempt. A denied
// attempt is a regular response, not an error: the reason is meant to be
// shown on the disabled action.
type AdvanceResponse struct {
	Allowed  bool             `json:"allowed"`
	Reason   string           `json:"reason,omitempty"`
	Metadata *models.Metadata `json:"metadata,omitempty"`
}

// StatesResponse lists the configured workflow states in pipeline order.
type StatesResponse struct {
	States      []models.State `json:"states"`
	SchemaTypes []string       `json:"schemaTypes,omitempty"`
}

// DocumentsResponse lists the documents currently sitting in one state.
type DocumentsResponse struct {
	State     string             `json:"state"`
	Documents []*models.Metadata `json:"documents"`
}
