// Package identity resolves the acting principal for a request.
//
// The service sits behind a gateway that authenticates users and forwards
// the principal in trusted headers. A request without a principal is not an
// error at this layer; the engine's gates fail closed on a zero principal.
package identity

import (
	"errors"
	"strings"

	"github.com/selvklart/docflow/pkg/models"
)

// Trusted headers set by the authenticating gateway.
const (
	UserIDHeader    = "X-Docflow-User-Id"
	UserRolesHeader = "X-Docflow-User-Roles"
)

// ErrUnauthenticated indicates no principal could be resolved for the
// request.
var ErrUnauthenticated = errors.New("no authenticated user")

// FromHeaders builds a principal from the trusted gateway headers. The
// roles header is a comma-separated list; surrounding whitespace and empty
// entries are dropped.
func FromHeaders(userID, rolesHeader string) (models.Principal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Principal{}, ErrUnauthenticated
	}

	var roles []string

	for _, role := range strings.Split(rolesHeader, ",") {
		role = strings.TrimSpace(role)
		if role != "" {
			roles = append(roles, role)
		}
	}

	return models.Principal{ID: userID, Roles: roles}, nil
}

// IsUnauthenticated checks if an error indicates a missing principal.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
