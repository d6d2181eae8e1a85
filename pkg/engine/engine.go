package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/selvklart/docflow/pkg/authorizer"
	"github.com/selvklart/docflow/pkg/catalog"
	"github.com/selvklart/docflow/pkg/eventbus"
	"github.com/selvklart/docflow/pkg/events"
	"github.com/selvklart/docflow/pkg/lock"
	"github.com/selvklart/docflow/pkg/models"
	"github.com/selvklart/docflow/pkg/otelhelper"
	"github.com/selvklart/docflow/pkg/release"
	"github.com/selvklart/docflow/pkg/store"
	"github.com/selvklart/docflow/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// lockTTL bounds how long a crashed holder can block a document.
const lockTTL = 10 * time.Second

// Engine coordinates the catalog, the metadata store, the authorizer and
// the external collaborators. One instance serves all documents.
type Engine struct {
	logger     *slog.Logger
	catalog    *catalog.Catalog
	store      store.Store
	release    release.Publisher
	validation validation.Reporter
	publisher  eventbus.EventPublisher
	locker     lock.Locker
	tracer     trace.Tracer
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithEventPublisher publishes lifecycle events on every successful
// mutation.
func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithLocker serializes operations on the same document.
func WithLocker(locker lock.Locker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithTracer traces engine operations.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// New creates a workflow engine.
func New(
	logger *slog.Logger,
	cat *catalog.Catalog,
	st store.Store,
	rel release.Publisher,
	val validation.Reporter,
	opts ...Option,
) *Engine {
	e := &Engine{
		logger:     logger,
		catalog:    cat,
		store:      st,
		release:    rel,
		validation: val,
		tracer:     noop.NewTracerProvider().Tracer("docflow"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Catalog returns the engine's state catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// HealthCheck reports whether the metadata store is reachable.
func (e *Engine) HealthCheck(ctx context.Context) error {
	return e.store.HealthCheck(ctx)
}

// withDocumentLock serializes the critical section per document when a
// locker is configured.
func (e *Engine) withDocumentLock(ctx context.Context, documentID string, fn func(context.Context) error) error {
	if e.locker == nil {
		return fn(ctx)
	}

	return e.locker.WithLock(ctx, "docflow:"+documentID, lockTTL, fn)
}

// resolveState maps a stored state ID back to the catalog. An unresolvable
// ID means the stored record is corrupt.
func (e *Engine) resolveState(stateID string) (models.State, error) {
	state, ok := e.catalog.ByID(stateID)
	if !ok {
		return models.State{}, fmt.Errorf("state %q: %w", stateID, ErrUnknownState)
	}

	return state, nil
}

// validationStatus fetches the validation snapshot only when the current
// state gates on it; other transitions never consult the collaborator.
func (e *Engine) validationStatus(ctx context.Context, current models.State, documentID string) (models.ValidationStatus, error) {
	if !current.RequireValidation {
		return models.ValidationStatus{}, nil
	}

	status, err := e.validation.Status(ctx, documentID)
	if err != nil {
		return models.ValidationStatus{}, fmt.Errorf("failed to fetch validation status: %w", err)
	}

	return status, nil
}

func (e *Engine) publishEvent(ctx context.Context, documentID string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	// Events are best effort: a bus outage must not fail the operation
	// that already committed.
	err := e.publisher.Publish(ctx, documentID, event)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to publish workflow event",
			"document_id", documentID,
			"event_type", event.GetType(),
			"error", err,
		)
	}
}

// Begin places a document in the workflow at the first catalog state with
// no assignees. A document without unpublished changes has nothing to
// review and cannot begin.
func (e *Engine) Begin(ctx context.Context, documentID string, hasUnpublishedChanges bool) (*models.Metadata, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.begin",
		attribute.String(otelhelper.DocumentIDKey, documentID),
	)
	defer span.End()

	if !hasUnpublishedChanges {
		return nil, newOperationError("Begin", documentID, ErrNoUnpublishedChanges)
	}

	meta, err := e.store.Create(ctx, documentID, e.catalog.First().ID)
	if err != nil {
		if store.IsAlreadyExists(err) {
			return nil, newOperationError("Begin", documentID, ErrAlreadyInWorkflow)
		}

		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to begin workflow for document %s: %w", documentID, err)
	}

	e.logger.InfoContext(ctx, "workflow begun", "document_id", documentID, "state", meta.State)
	e.publishEvent(ctx, documentID, events.WorkflowBegun{
		BaseEvent: events.NewBaseEvent(events.WorkflowBegunEvent, documentID),
		State:     meta.State,
	})

	return meta, nil
}

// Assign adds principals to the document's assignee set.
func (e *Engine) Assign(ctx context.Context, documentID string, principalIDs []string) (*models.Metadata, error) {
	return e.mutateAssignees(ctx, "Assign", documentID, func(current []string) []string {
		merged := slices.Clone(current)

		for _, id := range principalIDs {
			if !slices.Contains(merged, id) {
				merged = append(merged, id)
			}
		}

		return merged
	})
}

// Unassign removes principals from the document's assignee set.
func (e *Engine) Unassign(ctx context.Context, documentID string, principalIDs []string) (*models.Metadata, error) {
	return e.mutateAssignees(ctx, "Unassign", documentID, func(current []string) []string {
		remaining := make([]string, 0, len(current))

		for _, id := range current {
			if !slices.Contains(principalIDs, id) {
				remaining = append(remaining, id)
			}
		}

		return remaining
	})
}

func (e *Engine) mutateAssignees(ctx context.Context, op, documentID string, mutate func([]string) []string) (*models.Metadata, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.assignees",
		attribute.String(otelhelper.DocumentIDKey, documentID),
		attribute.String(otelhelper.OperationKey, op),
	)
	defer span.End()

	var updated *models.Metadata

	err := e.withDocumentLock(ctx, documentID, func(ctx context.Context) error {
		meta, err := e.store.Read(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to read workflow metadata: %w", err)
		}

		if meta == nil {
			return newOperationError(op, documentID, ErrNotInWorkflow)
		}

		assignees := mutate(meta.Assignees)

		updated, err = e.store.Patch(ctx, documentID, store.Patch{
			Assignees:        &assignees,
			ExpectedRevision: &meta.Revision,
		})
		if err != nil {
			return fmt.Errorf("failed to update assignees: %w", err)
		}

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	e.publishEvent(ctx, documentID, events.AssigneesChanged{
		BaseEvent: events.NewBaseEvent(events.AssigneesChangedEvent, documentID),
		Assignees: updated.Assignees,
	})

	return updated, nil
}

// AdvanceResult carries the verdict for an attempted transition and, when
// allowed, the updated metadata.
type AdvanceResult struct {
	Decision authorizer.Decision
	Metadata *models.Metadata
}

// Advance moves a document to the target state if the authorizer allows
// it. The check runs against freshly read metadata and the patch is
// guarded by its revision, so a stale verdict can never be applied.
func (e *Engine) Advance(ctx context.Context, documentID string, principal models.Principal, targetStateID string) (*AdvanceResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.advance",
		attribute.String(otelhelper.DocumentIDKey, documentID),
		attribute.String(otelhelper.TargetKey, targetStateID),
		attribute.String(otelhelper.PrincipalKey, principal.ID),
	)
	defer span.End()

	target, ok := e.catalog.ByID(targetStateID)
	if !ok {
		return nil, newOperationError("Advance", documentID, ErrUnknownTargetState)
	}

	var result *AdvanceResult

	err := e.withDocumentLock(ctx, documentID, func(ctx context.Context) error {
		meta, err := e.store.Read(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to read workflow metadata: %w", err)
		}

		if meta == nil {
			return newOperationError("Advance", documentID, ErrNotInWorkflow)
		}

		current, err := e.resolveState(meta.State)
		if err != nil {
			return newOperationError("Advance", documentID, err)
		}

		validationStatus, err := e.validationStatus(ctx, current, documentID)
		if err != nil {
			return newOperationError("Advance", documentID, err)
		}

		decision := authorizer.Evaluate(authorizer.Request{
			Current:    current,
			Candidate:  target,
			Principal:  principal,
			Assignees:  meta.Assignees,
			Validation: validationStatus,
		})

		if !decision.Allowed {
			result = &AdvanceResult{Decision: decision, Metadata: meta}

			return nil
		}

		updated, err := e.store.Patch(ctx, documentID, store.Patch{
			State:            &target.ID,
			ExpectedRevision: &meta.Revision,
		})
		if err != nil {
			return fmt.Errorf("failed to apply transition: %w", err)
		}

		result = &AdvanceResult{Decision: decision, Metadata: updated}

		e.logger.InfoContext(ctx, "workflow state changed",
			"document_id", documentID,
			"from_state", current.ID,
			"to_state", target.ID,
			"actor", principal.ID,
		)
		e.publishEvent(ctx, documentID, events.StateChanged{
			BaseEvent: events.NewBaseEvent(events.StateChangedEvent, documentID),
			FromState: current.ID,
			ToState:   target.ID,
			ActorID:   principal.ID,
		})

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return result, nil
}

// Complete removes a document from the workflow and releases (publishes)
// it. Only valid in the terminal catalog state. The metadata delete and
// the release are two independent operations; when the release fails the
// record is already gone and the inconsistency is reported as
// ErrReleaseFailed.
func (e *Engine) Complete(ctx context.Context, documentID string) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.complete",
		attribute.String(otelhelper.DocumentIDKey, documentID),
	)
	defer span.End()

	err := e.withDocumentLock(ctx, documentID, func(ctx context.Context) error {
		meta, err := e.store.Read(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to read workflow metadata: %w", err)
		}

		if meta == nil {
			return newOperationError("Complete", documentID, ErrNotInWorkflow)
		}

		if _, err := e.resolveState(meta.State); err != nil {
			return newOperationError("Complete", documentID, err)
		}

		if !e.catalog.IsLast(meta.State) {
			return newOperationError("Complete", documentID, ErrNotInLastState)
		}

		if err := e.store.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("failed to delete workflow metadata: %w", err)
		}

		e.publishEvent(ctx, documentID, events.WorkflowCompleted{
			BaseEvent: events.NewBaseEvent(events.WorkflowCompletedEvent, documentID),
			State:     meta.State,
		})

		if err := e.release.Publish(ctx, documentID); err != nil {
			// Metadata is gone but the document never published; flag it
			// loudly so an operator can finish the release by hand.
			e.logger.ErrorContext(ctx, "document left workflow but release failed",
				"document_id", documentID,
				"error", err,
			)

			return newOperationError("Complete", documentID, fmt.Errorf("%w: %w", ErrReleaseFailed, err))
		}

		e.logger.InfoContext(ctx, "workflow completed", "document_id", documentID)

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	return nil
}

// Cancel removes a document from the workflow without releasing it. No
// state or role checks apply, and cancelling an absent document is a
// no-op; a document must never be trapped in the pipeline.
func (e *Engine) Cancel(ctx context.Context, documentID string) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.cancel",
		attribute.String(otelhelper.DocumentIDKey, documentID),
	)
	defer span.End()

	err := e.withDocumentLock(ctx, documentID, func(ctx context.Context) error {
		meta, err := e.store.Read(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to read workflow metadata: %w", err)
		}

		if meta == nil {
			return nil
		}

		if err := e.store.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("failed to delete workflow metadata: %w", err)
		}

		e.logger.InfoContext(ctx, "workflow cancelled", "document_id", documentID, "state", meta.State)
		e.publishEvent(ctx, documentID, events.WorkflowCancelled{
			BaseEvent: events.NewBaseEvent(events.WorkflowCancelledEvent, documentID),
			State:     meta.State,
		})

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	return nil
}
