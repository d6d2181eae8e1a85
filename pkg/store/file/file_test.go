package file_test

import (
	"context"
	"testing"

	"github.com/selvklart/docflow/pkg/store"
	"github.com/selvklart/docflow/pkg/store/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *file.Store {
	t.Helper()

	s, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	return s
}

func TestCreateAndRead(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)
	assert.Equal(t, "draft", created.State)
	assert.Empty(t, created.Assignees)
	assert.EqualValues(t, 1, created.Revision)
	assert.False(t, created.CreatedAt.IsZero())

	read, err := s.Read(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, created.State, read.State)
	assert.Equal(t, created.Revision, read.Revision)
}

func TestRead_Absent(t *testing.T) {
	t.Parallel()

	s := setupStore(t)

	meta, err := s.Read(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestCreate_Duplicate(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	_, err = s.Create(ctx, "doc-1", "draft")
	require.Error(t, err)
	assert.True(t, store.IsAlreadyExists(err))
}

func TestPatch(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	state := "review"
	assignees := []string{"u1", "u2"}

	patched, err := s.Patch(ctx, "doc-1", store.Patch{State: &state, Assignees: &assignees})
	require.NoError(t, err)
	assert.Equal(t, "review", patched.State)
	assert.Equal(t, []string{"u1", "u2"}, patched.Assignees)
	assert.EqualValues(t, 2, patched.Revision)
}

func TestPatch_Absent(t *testing.T) {
	t.Parallel()

	s := setupStore(t)

	state := "review"
	_, err := s.Patch(context.Background(), "missing", store.Patch{State: &state})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestPatch_RevisionConflict(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	state := "review"

	// First writer wins.
	_, err = s.Patch(ctx, "doc-1", store.Patch{State: &state, ExpectedRevision: &created.Revision})
	require.NoError(t, err)

	// Second writer carries the stale revision and must lose.
	other := "approved"
	_, err = s.Patch(ctx, "doc-1", store.Patch{State: &other, ExpectedRevision: &created.Revision})
	require.Error(t, err)
	assert.True(t, store.IsRevisionConflict(err))

	meta, err := s.Read(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "review", meta.State)
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "doc-1"))

	meta, err := s.Read(ctx, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, meta)

	// Deleting an absent record is a no-op.
	require.NoError(t, s.Delete(ctx, "doc-1"))
}

func TestListByState(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "doc-1", "draft")
	require.NoError(t, err)
	_, err = s.Create(ctx, "doc-2", "review")
	require.NoError(t, err)
	_, err = s.Create(ctx, "doc-3", "draft")
	require.NoError(t, err)

	all, err := s.ListByState(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	drafts, err := s.ListByState(ctx, "draft")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	none, err := s.ListByState(ctx, "approved")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	s := setupStore(t)
	assert.NoError(t, s.HealthCheck(context.Background()))
}
