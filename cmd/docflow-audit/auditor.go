package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/selvklart/docflow/pkg/eventbus"
	"github.com/selvklart/docflow/pkg/events"
)

// Auditor consumes workflow lifecycle events and writes one structured
// audit line per event. It keeps no state; the log stream is the record.
type Auditor struct {
	id       string
	logger   *slog.Logger
	eventBus eventbus.EventBus
}

func NewAuditor(id string, eventBus eventbus.EventBus, logger *slog.Logger) *Auditor {
	return &Auditor{
		id:       id,
		logger:   logger.With("module", "docflow-audit", "auditor_id", id),
		eventBus: eventBus,
	}
}

func (a *Auditor) Start(ctx context.Context) error {
	a.logger.InfoContext(ctx, "Starting auditor", "auditor_id", a.id)

	if err := a.register(); err != nil {
		return err
	}

	err := a.eventBus.Subscribe(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	a.logger.InfoContext(ctx, "Auditor started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	a.logger.InfoContext(ctx, "Shutting down auditor...")

	return nil
}

func (a *Auditor) register() error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.WorkflowBegunEvent:     a.handleWorkflowBegun,
		events.AssigneesChangedEvent:  a.handleAssigneesChanged,
		events.StateChangedEvent:      a.handleStateChanged,
		events.WorkflowCompletedEvent: a.handleWorkflowCompleted,
		events.WorkflowCancelledEvent: a.handleWorkflowCancelled,
	}

	for eventType, handler := range handlers {
		if err := a.eventBus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return nil
}

func (a *Auditor) handleWorkflowBegun(ctx context.Context, event any) error {
	begun, ok := event.(*events.WorkflowBegun)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for WorkflowBegun")

		return nil
	}

	a.logger.InfoContext(ctx, "workflow begun",
		"document_id", begun.DocumentID,
		"state", begun.State,
		"timestamp", begun.Timestamp,
	)

	return nil
}

func (a *Auditor) handleAssigneesChanged(ctx context.Context, event any) error {
	changed, ok := event.(*events.AssigneesChanged)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for AssigneesChanged")

		return nil
	}

	a.logger.InfoContext(ctx, "assignees changed",
		"document_id", changed.DocumentID,
		"assignees", changed.Assignees,
		"timestamp", changed.Timestamp,
	)

	return nil
}

func (a *Auditor) handleStateChanged(ctx context.Context, event any) error {
	changed, ok := event.(*events.StateChanged)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for StateChanged")

		return nil
	}

	a.logger.InfoContext(ctx, "workflow state changed",
		"document_id", changed.DocumentID,
		"from_state", changed.FromState,
		"to_state", changed.ToState,
		"actor", changed.ActorID,
		"timestamp", changed.Timestamp,
	)

	return nil
}

func (a *Auditor) handleWorkflowCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.WorkflowCompleted)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for WorkflowCompleted")

		return nil
	}

	a.logger.InfoContext(ctx, "workflow completed",
		"document_id", completed.DocumentID,
		"state", completed.State,
		"timestamp", completed.Timestamp,
	)

	return nil
}

func (a *Auditor) handleWorkflowCancelled(ctx context.Context, event any) error {
	cancelled, ok := event.(*events.WorkflowCancelled)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for WorkflowCancelled")

		return nil
	}

	a.logger.InfoContext(ctx, "workflow cancelled",
		"document_id", cancelled.DocumentID,
		"state", cancelled.State,
		"timestamp", cancelled.Timestamp,
	)

	return nil
}
