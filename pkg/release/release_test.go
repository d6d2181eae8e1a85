package release_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/selvklart/docflow/pkg/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPublisher_Publish(t *testing.T) {
	t.Parallel()

	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/doc-1/publish", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	publisher := release.NewHTTPPublisher(server.URL)

	require.NoError(t, publisher.Publish(context.Background(), "doc-1"))
	assert.Equal(t, 1, calls)
}

func TestHTTPPublisher_Failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	publisher := release.NewHTTPPublisher(server.URL)

	err := publisher.Publish(context.Background(), "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNoop_Publish(t *testing.T) {
	t.Parallel()

	publisher := &release.Noop{}
	assert.NoError(t, publisher.Publish(context.Background(), "doc-1"))
}
