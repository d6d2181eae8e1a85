// Package models defines the core domain models for the document workflow pipeline.
package models

import "slices"

// State is one named step of the workflow pipeline. The order of states in
// the configuration is significant: the first state is where documents enter
// the workflow and the last state is the only one a document can be
// completed (published) from.
type State struct {
	ID    string `json:"id"    validate:"required,min=1"`
	Title string `json:"title" validate:"required,min=1"`

	// Transitions lists the state IDs reachable from this state. An empty
	// list means any state is reachable.
	Transitions []string `json:"transitions"`

	// Roles lists the role names allowed to move a document into this
	// state. An empty list means anyone.
	Roles []string `json:"roles" validate:"dive,min=1"`

	// RequireAssignment requires the acting user to be among the document's
	// assignees before moving it into this state.
	RequireAssignment bool `json:"requireAssignment"`

	// RequireValidation blocks moving a document out of this state while
	// the document has blocking validation errors.
	RequireValidation bool `json:"requireValidation"`
}

// AllowsTransitionTo reports whether the transition graph permits moving
// from this state to the given state ID.
func (s State) AllowsTransitionTo(stateID string) bool {
	if len(s.Transitions) == 0 {
		return true
	}

	return slices.Contains(s.Transitions, stateID)
}

// AllowsRole reports whether a principal holding the given roles may move a
// document into this state.
func (s State) AllowsRole(roles []string) bool {
	if len(s.Roles) == 0 {
		return true
	}

	for _, role := range roles {
		if slices.Contains(s.Roles, role) {
			return true
		}
	}

	return false
}

// Config is the workflow configuration supplied once at startup.
type Config struct {
	States      []State  `json:"states"      validate:"required,min=1,dive"`
	SchemaTypes []string `json:"schemaTypes" validate:"required,min=1,dive,min=1"`
}
