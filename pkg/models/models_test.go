package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	state := State{ID: "draft", Title: "Draft"}
	assert.NoError(t, validate.Struct(state))

	state = State{ID: "", Title: "Draft"}
	assert.Error(t, validate.Struct(state))

	state = State{ID: "draft", Title: ""}
	assert.Error(t, validate.Struct(state))
}

func TestConfig_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	cfg := Config{
		States:      []State{{ID: "draft", Title: "Draft"}},
		SchemaTypes: []string{"article"},
	}
	require.NoError(t, validate.Struct(cfg))

	cfg = Config{SchemaTypes: []string{"article"}}
	assert.Error(t, validate.Struct(cfg), "empty state list must fail")

	cfg = Config{States: []State{{ID: "draft", Title: "Draft"}}}
	assert.Error(t, validate.Struct(cfg), "empty schema type list must fail")
}

func TestState_AllowsTransitionTo(t *testing.T) {
	t.Parallel()

	unrestricted := State{ID: "draft", Title: "Draft"}
	assert.True(t, unrestricted.AllowsTransitionTo("review"))
	assert.True(t, unrestricted.AllowsTransitionTo("anything"))

	restricted := State{ID: "draft", Title: "Draft", Transitions: []string{"review"}}
	assert.True(t, restricted.AllowsTransitionTo("review"))
	assert.False(t, restricted.AllowsTransitionTo("published"))
}

func TestState_AllowsRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stateRoles []string
		userRoles  []string
		want       bool
	}{
		{name: "no role gate admits anyone", stateRoles: nil, userRoles: nil, want: true},
		{name: "matching role", stateRoles: []string{"editor"}, userRoles: []string{"editor"}, want: true},
		{name: "one of several matches", stateRoles: []string{"editor", "administrator"}, userRoles: []string{"writer", "administrator"}, want: true},
		{name: "no intersection", stateRoles: []string{"editor"}, userRoles: []string{"writer"}, want: false},
		{name: "case sensitive", stateRoles: []string{"editor"}, userRoles: []string{"Editor"}, want: false},
		{name: "user without roles", stateRoles: []string{"editor"}, userRoles: nil, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := State{ID: "review", Title: "In review", Roles: tc.stateRoles}
			assert.Equal(t, tc.want, state.AllowsRole(tc.userRoles))
		})
	}
}

func TestMetadata_IsAssigned(t *testing.T) {
	t.Parallel()

	meta := &Metadata{DocumentID: "doc-1", State: "draft", Assignees: []string{"u1", "u2"}}
	assert.True(t, meta.IsAssigned("u1"))
	assert.False(t, meta.IsAssigned("u3"))

	empty := &Metadata{DocumentID: "doc-1", State: "draft"}
	assert.False(t, empty.IsAssigned("u1"), "no assignees recorded never satisfies assignment")
}

func TestValidationStatus_HasBlockingErrors(t *testing.T) {
	t.Parallel()

	assert.False(t, ValidationStatus{}.HasBlockingErrors())
	assert.False(t, ValidationStatus{
		Markers: []ValidationMarker{{Level: MarkerLevelWarning, Message: "short title"}},
	}.HasBlockingErrors(), "warnings do not block")
	assert.True(t, ValidationStatus{
		Markers: []ValidationMarker{
			{Level: MarkerLevelWarning},
			{Level: MarkerLevelError, Message: "missing slug"},
		},
	}.HasBlockingErrors())
}
