package validation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/selvklart/docflow/pkg/models"
	"github.com/selvklart/docflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPReporter_Status(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/doc-1/validation", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_validating": false, "markers": [{"level": "error", "message": "missing slug"}]}`))
	}))
	t.Cleanup(server.Close)

	reporter := validation.NewHTTPReporter(server.URL)

	status, err := reporter.Status(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.False(t, status.IsValidating)
	assert.True(t, status.HasBlockingErrors())
}

func TestHTTPReporter_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	reporter := validation.NewHTTPReporter(server.URL)

	_, err := reporter.Status(context.Background(), "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStatic_Status(t *testing.T) {
	t.Parallel()

	reporter := &validation.Static{
		Statuses: map[string]models.ValidationStatus{
			"doc-1": {IsValidating: true},
		},
	}

	status, err := reporter.Status(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.True(t, status.IsValidating)

	status, err = reporter.Status(context.Background(), "doc-2")
	require.NoError(t, err)
	assert.False(t, status.IsValidating)
	assert.False(t, status.HasBlockingErrors())
}
