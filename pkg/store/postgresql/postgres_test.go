package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/selvklart/docflow/pkg/store"
	"github.com/selvklart/docflow/pkg/store/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"workflow_metadata", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestStore(t *testing.T) (*postgresql.Store, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	t.Cleanup(cancel)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("docflow_test"),
			postgres.WithUsername("docflow"),
			postgres.WithPassword("docflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	s, err := postgresql.NewStore(ctx, slog.Default(), databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		err := s.Close(context.Background())
		assert.NoError(t, err)
	})

	return s, ctx
}

func TestStore_CreateReadDelete(t *testing.T) {
	s, ctx := setupTestStore(t)

	created, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)
	assert.Equal(t, "draft", created.State)
	assert.Empty(t, created.Assignees)
	assert.EqualValues(t, 1, created.Revision)

	read, err := s.Read(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, "draft", read.State)

	absent, err := s.Read(ctx, "doc-2")
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = s.Create(ctx, "doc-1", "draft")
	require.Error(t, err)
	assert.True(t, store.IsAlreadyExists(err))

	require.NoError(t, s.Delete(ctx, "doc-1"))
	require.NoError(t, s.Delete(ctx, "doc-1"), "delete is idempotent")
}

func TestStore_Patch(t *testing.T) {
	s, ctx := setupTestStore(t)

	created, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	state := "review"
	assignees := []string{"u1"}

	patched, err := s.Patch(ctx, "doc-1", store.Patch{State: &state, Assignees: &assignees})
	require.NoError(t, err)
	assert.Equal(t, "review", patched.State)
	assert.Equal(t, []string{"u1"}, patched.Assignees)
	assert.Equal(t, created.Revision+1, patched.Revision)

	// Partial patch leaves the other field untouched.
	other := []string{"u1", "u2"}
	patched, err = s.Patch(ctx, "doc-1", store.Patch{Assignees: &other})
	require.NoError(t, err)
	assert.Equal(t, "review", patched.State)
	assert.Equal(t, []string{"u1", "u2"}, patched.Assignees)

	_, err = s.Patch(ctx, "missing", store.Patch{State: &state})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestStore_PatchRevisionConflict(t *testing.T) {
	s, ctx := setupTestStore(t)

	created, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	state := "review"
	_, err = s.Patch(ctx, "doc-1", store.Patch{State: &state, ExpectedRevision: &created.Revision})
	require.NoError(t, err)

	stale := "approved"
	_, err = s.Patch(ctx, "doc-1", store.Patch{State: &stale, ExpectedRevision: &created.Revision})
	require.Error(t, err)
	assert.True(t, store.IsRevisionConflict(err))

	meta, err := s.Read(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "review", meta.State)
}

func TestStore_ListByState(t *testing.T) {
	s, ctx := setupTestStore(t)

	for _, doc := range []struct{ id, state string }{
		{"doc-1", "draft"},
		{"doc-2", "review"},
		{"doc-3", "draft"},
	} {
		_, err := s.Create(ctx, doc.id, doc.state)
		require.NoError(t, err)
	}

	all, err := s.ListByState(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	drafts, err := s.ListByState(ctx, "draft")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "doc-1", drafts[0].DocumentID)
	assert.Equal(t, "doc-3", drafts[1].DocumentID)
}

func TestStore_HealthCheck(t *testing.T) {
	s, ctx := setupTestStore(t)
	assert.NoError(t, s.HealthCheck(ctx))
}
