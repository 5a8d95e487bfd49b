package session

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Checkpoint is an immutable snapshot of a session's position and answers.
// It shares no memory with the session it was taken from.
type Checkpoint struct {
	id        uuid.UUID
	sessionID uuid.UUID
	position  int
	answers   []string
	createdAt time.Time
}

// NewCheckpoint rebuilds a checkpoint from stored fields. The answers slice
// is copied.
func NewCheckpoint(
	id, sessionID uuid.UUID,
	position int,
	answers []string,
	createdAt time.Time,
) (Checkpoint, error) {
	cp := Checkpoint{
		id:        id,
		sessionID: sessionID,
		position:  position,
		answers:   slices.Clone(answers),
		createdAt: createdAt,
	}
	if cp.answers == nil {
		cp.answers = []string{}
	}
	if err := cp.Validate(); err != nil {
		return Checkpoint{}, err
	}
	return cp, nil
}

// Validate checks if the Checkpoint has valid data.
func (c Checkpoint) Validate() error {
	if c.id == uuid.Nil {
		return ErrCheckpointIDEmpty
	}
	if c.sessionID == uuid.Nil {
		return ErrCheckpointSessionID
	}
	if c.position < 0 || c.position > len(c.answers) {
		return ErrCheckpointInvalidPos
	}
	return nil
}

// ID returns the checkpoint ID.
func (c Checkpoint) ID() uuid.UUID { return c.id }

// SessionID returns the ID of the session the checkpoint was taken from.
func (c Checkpoint) SessionID() uuid.UUID { return c.sessionID }

// Position returns the saved position.
func (c Checkpoint) Position() int { return c.position }

// Answers returns a copy of the saved answers.
func (c Checkpoint) Answers() []string {
	out := slices.Clone(c.answers)
	if out == nil {
		out = []string{}
	}
	return out
}

// CreatedAt returns when the checkpoint was taken.
func (c Checkpoint) CreatedAt() time.Time { return c.createdAt }

type checkpointJSON struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Position  int       `json:"position"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON implements json.Marshaler.
func (c Checkpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(checkpointJSON{
		ID:        c.id,
		SessionID: c.sessionID,
		Position:  c.position,
		Answers:   c.Answers(),
		CreatedAt: c.createdAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded checkpoint is validated.
func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var raw checkpointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cp, err := NewCheckpoint(raw.ID, raw.SessionID, raw.Position, raw.Answers, raw.CreatedAt)
	if err != nil {
		return err
	}
	*c = cp
	return nil
}
