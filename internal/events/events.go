package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session event types.
const (
	AnswerRecorded  = "answer_recorded"
	CheckpointSaved = "checkpoint_saved"
	SessionRestored = "session_restored"
)

// SessionEvent describes something that happened to a session.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the session event type constants
	Type string `json:"type"`

	SessionID   uuid.UUID `json:"session_id"`
	CandidateID uuid.UUID `json:"candidate_id"`

	// Payload contains type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AnswerPayload accompanies AnswerRecorded events.
type AnswerPayload struct {
	Position int    `json:"position"`
	Answer   string `json:"answer"`
}

// CheckpointPayload accompanies CheckpointSaved and SessionRestored events.
type CheckpointPayload struct {
	CheckpointID uuid.UUID `json:"checkpoint_id"`
	Position     int       `json:"position"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *SessionEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewSessionEvent creates a SessionEvent of eventType with payload encoded as JSON.
func NewSessionEvent(eventType string, sessionID, candidateID uuid.UUID, payload interface{}) (*SessionEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &SessionEvent{
		ID:          uuid.New(),
		Type:        eventType,
		SessionID:   sessionID,
		CandidateID: candidateID,
		Payload:     payloadBytes,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
