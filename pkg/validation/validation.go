// Package validation consults the host document API for a document's
// validation status. The workflow never owns validation; it only reads the
// snapshot when a state requires it.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/selvklart/docflow/pkg/models"
)

// Reporter reports a document's current validation status.
type Reporter interface {
	Status(ctx context.Context, documentID string) (models.ValidationStatus, error)
}

// HTTPReporter fetches validation status from the host document API.
type HTTPReporter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPReporter creates a reporter against the given base URL.
func NewHTTPReporter(baseURL string) *HTTPReporter {
	return &HTTPReporter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Status fetches GET {base}/documents/{id}/validation.
func (r *HTTPReporter) Status(ctx context.Context, documentID string) (models.ValidationStatus, error) {
	endpoint := fmt.Sprintf("%s/documents/%s/validation", r.baseURL, url.PathEscape(documentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ValidationStatus{}, fmt.Errorf("failed to build validation request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return models.ValidationStatus{}, fmt.Errorf("validation request failed for document %s: %w", documentID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return models.ValidationStatus{}, fmt.Errorf("validation request for document %s returned status %d", documentID, resp.StatusCode)
	}

	var status models.ValidationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return models.ValidationStatus{}, fmt.Errorf("failed to decode validation response for document %s: %w", documentID, err)
	}

	return status, nil
}

// Static is a fixed-answer reporter for development and tests.
type Static struct {
	Statuses map[string]models.ValidationStatus
}

// Status returns the configured snapshot, or a clean status when none is
// configured for the document.
func (s *Static) Status(_ context.Context, documentID string) (models.ValidationStatus, error) {
	if s.Statuses == nil {
		return models.ValidationStatus{}, nil
	}

	return s.Statuses[documentID], nil
}
