package authorizer_test

import (
	"testing"

	"github.com/selvklart/docflow/pkg/authorizer"
	"github.com/selvklart/docflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	draft = models.State{ID: "draft", Title: "Draft"}

	review = models.State{
		ID:                "review",
		Title:             "In review",
		Roles:             []string{"editor"},
		RequireAssignment: true,
	}

	approved = models.State{
		ID:                "approved",
		Title:             "Approved",
		RequireValidation: true,
	}

	editor = models.Principal{ID: "u1", Roles: []string{"editor"}}
	writer = models.Principal{ID: "u2", Roles: []string{"writer"}}
)

func TestEvaluate_AllGatesPass(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   draft,
		Candidate: review,
		Principal: editor,
		Assignees: []string{"u1"},
	})

	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
}

func TestEvaluate_RoleGate(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   draft,
		Candidate: review,
		Principal: writer,
		Assignees: []string{"u2"},
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "role")
	assert.Contains(t, decision.Reason, review.Title)
}

func TestEvaluate_EmptyRolesAdmitAnyone(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   draft,
		Candidate: models.State{ID: "open", Title: "Open"},
		Principal: models.Principal{ID: "u9"},
	})

	assert.True(t, decision.Allowed)
}

func TestEvaluate_TransitionGraphGate(t *testing.T) {
	t.Parallel()

	restricted := models.State{ID: "draft", Title: "Draft", Transitions: []string{"approved"}}

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   restricted,
		Candidate: models.State{ID: "review", Title: "In review"},
		Principal: editor,
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, `"In review" from "Draft"`)
}

func TestEvaluate_EmptyTransitionsReachEverything(t *testing.T) {
	t.Parallel()

	// An empty out-edge set places no graph restriction on the move.
	for _, candidate := range []models.State{draft, approved, {ID: "anywhere", Title: "Anywhere"}} {
		decision := authorizer.Evaluate(authorizer.Request{
			Current:   models.State{ID: "s", Title: "S"},
			Candidate: candidate,
			Principal: editor,
		})
		assert.True(t, decision.Allowed, "candidate %s", candidate.ID)
	}
}

func TestEvaluate_AssignmentGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assignees []string
		allowed   bool
	}{
		{name: "assigned", assignees: []string{"u1", "u3"}, allowed: true},
		{name: "not assigned", assignees: []string{"u3"}, allowed: false},
		{name: "no assignees recorded", assignees: nil, allowed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			decision := authorizer.Evaluate(authorizer.Request{
				Current:   draft,
				Candidate: review,
				Principal: editor,
				Assignees: tc.assignees,
			})

			assert.Equal(t, tc.allowed, decision.Allowed)

			if !tc.allowed {
				assert.Contains(t, decision.Reason, "assigned")
			}
		})
	}
}

func TestEvaluate_ValidationPendingGate(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:    approved,
		Candidate:  draft,
		Principal:  editor,
		Validation: models.ValidationStatus{IsValidating: true},
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "validating")
}

func TestEvaluate_ValidationErrorsGate(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   approved,
		Candidate: draft,
		Principal: editor,
		Validation: models.ValidationStatus{
			Markers: []models.ValidationMarker{{Level: models.MarkerLevelError}},
		},
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "validation errors")
}

func TestEvaluate_ValidationIgnoredWithoutRequireValidation(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   draft,
		Candidate: models.State{ID: "open", Title: "Open"},
		Principal: editor,
		Validation: models.ValidationStatus{
			IsValidating: true,
			Markers:      []models.ValidationMarker{{Level: models.MarkerLevelError}},
		},
	})

	assert.True(t, decision.Allowed)
}

func TestEvaluate_WarningsDoNotBlock(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   approved,
		Candidate: draft,
		Principal: editor,
		Validation: models.ValidationStatus{
			Markers: []models.ValidationMarker{{Level: models.MarkerLevelWarning}},
		},
	})

	assert.True(t, decision.Allowed)
}

func TestEvaluate_NoPrincipalFailsClosed(t *testing.T) {
	t.Parallel()

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   draft,
		Candidate: models.State{ID: "open", Title: "Open"},
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "no authenticated user")
}

func TestEvaluate_GatePrecedence(t *testing.T) {
	t.Parallel()

	// Every gate fails here; the role gate wins because it is checked
	// first.
	restricted := models.State{
		ID:                "approved",
		Title:             "Approved",
		Transitions:       []string{"elsewhere"},
		RequireValidation: true,
	}
	gated := models.State{
		ID:                "review",
		Title:             "In review",
		Roles:             []string{"editor"},
		RequireAssignment: true,
	}

	decision := authorizer.Evaluate(authorizer.Request{
		Current:   restricted,
		Candidate: gated,
		Principal: writer,
		Validation: models.ValidationStatus{
			Markers: []models.ValidationMarker{{Level: models.MarkerLevelError}},
		},
	})

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "role")
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	req := authorizer.Request{
		Current:   approved,
		Candidate: review,
		Principal: writer,
		Assignees: []string{"u5"},
		Validation: models.ValidationStatus{
			Markers: []models.ValidationMarker{{Level: models.MarkerLevelError}},
		},
	}

	first := authorizer.Evaluate(req)
	for range 10 {
		assert.Equal(t, first, authorizer.Evaluate(req))
	}
}
