package models

// Principal is the authenticated actor attempting a workflow operation.
// Principals are resolved per request by an external identity collaborator;
// the workflow engine never stores them.
type Principal struct {
	ID    string   `json:"id"    validate:"required"`
	Roles []string `json:"roles"`
}

// IsZero reports whether no principal was resolved. A zero principal fails
// every role and assignment gate.
func (p Principal) IsZero() bool {
	return p.ID == ""
}
