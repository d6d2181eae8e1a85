package models

// Validation marker levels as reported by the host document API.
const (
	MarkerLevelError   = "error"
	MarkerLevelWarning = "warning"
)

// ValidationMarker is a single validation finding on a document.
type ValidationMarker struct {
	Level   string `json:"level"`
	Message string `json:"message,omitempty"`
}

// ValidationStatus is the document validation snapshot reported by the
// validation collaborator.
type ValidationStatus struct {
	IsValidating bool               `json:"is_validating"`
	Markers      []ValidationMarker `json:"markers,omitempty"`
}

// HasBlockingErrors reports whether any marker is at error level. Warnings
// never block a transition.
func (v ValidationStatus) HasBlockingErrors() bool {
	for _, marker := range v.Markers {
		if marker.Level == MarkerLevelError {
			return true
		}
	}

	return false
}
