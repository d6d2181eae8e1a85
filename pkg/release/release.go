// Package release publishes a document through the host document API when
// its workflow completes.
package release

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Publisher releases (publishes) a document. Invoked by the engine only
// after the workflow metadata has been deleted.
type Publisher interface {
	Publish(ctx context.Context, documentID string) error
}

// HTTPPublisher triggers the publish endpoint of the host document API.
type HTTPPublisher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPublisher creates a publisher against the given base URL.
func NewHTTPPublisher(baseURL string) *HTTPPublisher {
	return &HTTPPublisher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish calls POST {base}/documents/{id}/publish.
func (p *HTTPPublisher) Publish(ctx context.Context, documentID string) error {
	endpoint := fmt.Sprintf("%s/documents/%s/publish", p.baseURL, url.PathEscape(documentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build publish request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish request failed for document %s: %w", documentID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publish request for document %s returned status %d", documentID, resp.StatusCode)
	}

	return nil
}

// Noop logs instead of publishing. For local development without a host
// document API.
type Noop struct {
	Logger *slog.Logger
}

func (n *Noop) Publish(ctx context.Context, documentID string) error {
	if n.Logger != nil {
		n.Logger.InfoContext(ctx, "skipping release, no publisher configured", "document_id", documentID)
	}

	return nil
}
