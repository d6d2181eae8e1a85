package events_test

import (
	"encoding/json"
	"testing"

	"github.com/selvklart/docflow/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	t.Parallel()

	base := events.NewBaseEvent(events.StateChangedEvent, "doc-1")

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, events.StateChangedEvent, base.Type)
	assert.Equal(t, "doc-1", base.DocumentID)
	assert.False(t, base.Timestamp.IsZero())

	other := events.NewBaseEvent(events.StateChangedEvent, "doc-1")
	assert.NotEqual(t, base.ID, other.ID)
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, events.WorkflowBegunEvent, events.WorkflowBegun{}.GetType())
	assert.Equal(t, events.AssigneesChangedEvent, events.AssigneesChanged{}.GetType())
	assert.Equal(t, events.StateChangedEvent, events.StateChanged{}.GetType())
	assert.Equal(t, events.WorkflowCompletedEvent, events.WorkflowCompleted{}.GetType())
	assert.Equal(t, events.WorkflowCancelledEvent, events.WorkflowCancelled{}.GetType())
}

func TestStateChanged_RoundTrip(t *testing.T) {
	t.Parallel()

	event := events.StateChanged{
		BaseEvent: events.NewBaseEvent(events.StateChangedEvent, "doc-1"),
		FromState: "draft",
		ToState:   "review",
		ActorID:   "u1",
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded events.StateChanged

	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.FromState, decoded.FromState)
	assert.Equal(t, event.ToState, decoded.ToState)
	assert.Equal(t, event.DocumentID, decoded.DocumentID)
}
