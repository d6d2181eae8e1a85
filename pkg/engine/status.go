package engine

import (
	"context"
	"fmt"

	"github.com/selvklart/docflow/pkg/authorizer"
	"github.com/selvklart/docflow/pkg/models"
	"github.com/selvklart/docflow/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// TransitionOption describes one candidate state for the acting principal,
// including why it is currently unreachable.
type TransitionOption struct {
	State   models.State `json:"state"`
	Allowed bool         `json:"allowed"`
	Reason  string       `json:"reason,omitempty"`
}

// Status is a read-only snapshot of a document's position in the workflow
// as seen by one principal.
type Status struct {
	InWorkflow  bool               `json:"inWorkflow"`
	State       *models.State      `json:"state,omitempty"`
	Assignees   []string           `json:"assignees,omitempty"`
	Revision    int64              `json:"revision,omitempty"`
	Transitions []TransitionOption `json:"transitions,omitempty"`
	CanComplete bool               `json:"canComplete"`
}

// NextStep is the proposed follow-up action for a document: either advance
// to the single linear successor or, in the terminal state, complete.
type NextStep struct {
	Complete   bool              `json:"complete"`
	Transition *TransitionOption `json:"transition,omitempty"`
}

// Status reports where a document sits in the workflow and which states
// the given principal could move it to right now. Every non-current
// catalog state is evaluated, denied candidates carry the denial reason.
func (e *Engine) Status(ctx context.Context, documentID string, principal models.Principal) (*Status, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.status",
		attribute.String(otelhelper.DocumentIDKey, documentID),
		attribute.String(otelhelper.PrincipalKey, principal.ID),
	)
	defer span.End()

	meta, err := e.store.Read(ctx, documentID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to read workflow metadata: %w", err)
	}

	if meta == nil {
		return &Status{InWorkflow: false}, nil
	}

	current, err := e.resolveState(meta.State)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newOperationError("Status", documentID, err)
	}

	validationStatus, err := e.validationStatus(ctx, current, documentID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newOperationError("Status", documentID, err)
	}

	transitions := make([]TransitionOption, 0, len(e.catalog.States())-1)

	for _, candidate := range e.catalog.States() {
		if candidate.ID == current.ID {
			continue
		}

		decision := authorizer.Evaluate(authorizer.Request{
			Current:    current,
			Candidate:  candidate,
			Principal:  principal,
			Assignees:  meta.Assignees,
			Validation: validationStatus,
		})

		transitions = append(transitions, TransitionOption{
			State:   candidate,
			Allowed: decision.Allowed,
			Reason:  decision.Reason,
		})
	}

	return &Status{
		InWorkflow:  true,
		State:       &current,
		Assignees:   meta.Assignees,
		Revision:    meta.Revision,
		Transitions: transitions,
		CanComplete: e.catalog.IsLast(current.ID),
	}, nil
}

// Next proposes the single forward step for a document: the linear
// successor in catalog order, or completion when the document already sits
// in the terminal state. The successor is evaluated for the principal so
// callers can surface why it is blocked.
func (e *Engine) Next(ctx context.Context, documentID string, principal models.Principal) (*NextStep, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.next",
		attribute.String(otelhelper.DocumentIDKey, documentID),
		attribute.String(otelhelper.PrincipalKey, principal.ID),
	)
	defer span.End()

	meta, err := e.store.Read(ctx, documentID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to read workflow metadata: %w", err)
	}

	if meta == nil {
		return nil, newOperationError("Next", documentID, ErrNotInWorkflow)
	}

	current, err := e.resolveState(meta.State)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newOperationError("Next", documentID, err)
	}

	if e.catalog.IsLast(current.ID) {
		return &NextStep{Complete: true}, nil
	}

	successor, ok := e.catalog.Next(current.ID)
	if !ok {
		return nil, newOperationError("Next", documentID, ErrUnknownState)
	}

	validationStatus, err := e.validationStatus(ctx, current, documentID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newOperationError("Next", documentID, err)
	}

	decision := authorizer.Evaluate(authorizer.Request{
		Current:    current,
		Candidate:  successor,
		Principal:  principal,
		Assignees:  meta.Assignees,
		Validation: validationStatus,
	})

	return &NextStep{
		Transition: &TransitionOption{
			State:   successor,
			Allowed: decision.Allowed,
			Reason:  decision.Reason,
		},
	}, nil
}

// ListByState returns metadata for every document currently in the given
// catalog state, oldest first.
func (e *Engine) ListByState(ctx context.Context, stateID string) ([]*models.Metadata, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.list_by_state",
		attribute.String(otelhelper.StateKey, stateID),
	)
	defer span.End()

	if _, ok := e.catalog.ByID(stateID); !ok {
		return nil, newOperationError("ListByState", "", ErrUnknownTargetState)
	}

	items, err := e.store.ListByState(ctx, stateID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list documents in state %s: %w", stateID, err)
	}

	return items, nil
}
