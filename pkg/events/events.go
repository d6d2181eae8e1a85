// Package events defines the workflow lifecycle events published on the
// event bus so other surfaces (badges, tool listings, notifications) can
// react to metadata changes.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every workflow lifecycle event.
const Topic = "docflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowBegunEvent     EventType = "workflow.begun"
	AssigneesChangedEvent  EventType = "workflow.assignees.changed"
	StateChangedEvent      EventType = "workflow.state.changed"
	WorkflowCompletedEvent EventType = "workflow.completed"
	WorkflowCancelledEvent EventType = "workflow.cancelled"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	DocumentID string    `json:"document_id"`
}

// NewBaseEvent stamps an event with a fresh ID and the current time.
func NewBaseEvent(eventType EventType, documentID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		DocumentID: documentID,
	}
}

type WorkflowBegun struct {
	BaseEvent

	State string `json:"state"`
}

func (e WorkflowBegun) GetType() EventType {
	return WorkflowBegunEvent
}

type AssigneesChanged struct {
	BaseEvent

	Assignees []string `json:"assignees"`
}

func (e AssigneesChanged) GetType() EventType {
	return AssigneesChangedEvent
}

type StateChanged struct {
	BaseEvent

	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	ActorID   string `json:"actor_id"`
}

func (e StateChanged) GetType() EventType {
	return StateChangedEvent
}

type WorkflowCompleted struct {
	BaseEvent

	State string `json:"state"`
}

func (e WorkflowCompleted) GetType() EventType {
	return WorkflowCompletedEvent
}

type WorkflowCancelled struct {
	BaseEvent

	State string `json:"state"`
}

func (e WorkflowCancelled) GetType() EventType {
	return WorkflowCancelledEvent
}
