// Package authorizer decides whether a single workflow transition is
// allowed.
//
// Evaluate is a pure function: given identical inputs it returns the
// identical verdict. It performs no I/O and holds no state, so every gate
// combination can be unit tested exhaustively. Verdicts are data, not
// errors; a denied transition carries a human-readable reason the UI can
// render on the disabled action.
package authorizer

import (
	"fmt"
	"slices"

	"github.com/selvklart/docflow/pkg/models"
)

// Request carries everything a transition verdict depends on.
type Request struct {
	// Current is the state the document is in now.
	Current models.State

	// Candidate is the state the transition would move the document into.
	Candidate models.State

	// Principal is the acting user. A zero principal fails closed.
	Principal models.Principal

	// Assignees are the principal IDs currently assigned to the document.
	Assignees []string

	// Validation is the document's validation snapshot. Only consulted
	// when the current state requires validation.
	Validation models.ValidationStatus
}

// Decision is the verdict for one candidate transition.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Evaluate runs the transition gates in order of precedence: role,
// transition graph, assignment, validation pending, validation errors. The
// first failing gate supplies the reason.
func Evaluate(req Request) Decision {
	if req.Principal.IsZero() {
		return deny("no authenticated user, cannot move document to %q", req.Candidate.Title)
	}

	if !req.Candidate.AllowsRole(req.Principal.Roles) {
		return deny("your user role cannot move document to %q", req.Candidate.Title)
	}

	if !req.Current.AllowsTransitionTo(req.Candidate.ID) {
		return deny("cannot move document to %q from %q", req.Candidate.Title, req.Current.Title)
	}

	if req.Candidate.RequireAssignment && !slices.Contains(req.Assignees, req.Principal.ID) {
		return deny("you must be assigned to the document to move it to %q", req.Candidate.Title)
	}

	if req.Current.RequireValidation && req.Validation.IsValidating {
		return deny("document is still validating, cannot move it to %q", req.Candidate.Title)
	}

	if req.Current.RequireValidation && req.Validation.HasBlockingErrors() {
		return deny("document has validation errors, cannot move it to %q", req.Candidate.Title)
	}

	return Decision{Allowed: true}
}
