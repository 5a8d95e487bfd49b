package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(uuid.New(), uuid.New())
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	examID, candidateID := uuid.New(), uuid.New()
	s, err := New(examID, candidateID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, examID, s.ExamID)
	assert.Equal(t, candidateID, s.CandidateID)
	assert.Equal(t, 0, s.Position)
	assert.Empty(t, s.Answers)
	assert.False(t, s.StartedAt.IsZero())

	_, err = New(uuid.Nil, candidateID)
	assert.ErrorIs(t, err, ErrSessionExamIDEmpty)

	_, err = New(examID, uuid.Nil)
	assert.ErrorIs(t, err, ErrSessionCandidateID)
}

func TestAnswerQuestionAppendsAndAdvances(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.AnswerQuestion("4")
	s.AnswerQuestion("10")

	assert.Equal(t, 2, s.Position)
	assert.Equal(t, []string{"4", "10"}, s.Answers)
	assert.Equal(t, "4", s.Answer(0))
	assert.Equal(t, "10", s.Answer(1))
	assert.Equal(t, NoAnswer, s.Answer(2))
	assert.Equal(t, NoAnswer, s.Answer(-1))
}

func TestAnswerQuestionOverwritesAfterRestore(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.AnswerQuestion("4")
	cp := s.Save()
	s.AnswerQuestion("10")
	s.AnswerQuestion("x")

	require.NoError(t, s.Restore(cp))
	assert.Equal(t, 1, s.Position)
	assert.Equal(t, []string{"4"}, s.Answers)

	// Restoring from a checkpoint taken while answers existed beyond the
	// cursor lets later answers overwrite in place.
	s.AnswerQuestion("9")
	s.AnswerQuestion("y")
	late := s.Save()
	s.Position = 1
	s.AnswerQuestion("overwritten")
	assert.Equal(t, 2, s.Position)
	assert.Equal(t, []string{"4", "overwritten", "y"}, s.Answers)
	assert.Equal(t, []string{"4", "9", "y"}, late.Answers())
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.AnswerQuestion("4")
	s.AnswerQuestion("10")

	require.NoError(t, s.Restore(s.Save()))
	assert.Equal(t, 2, s.Position)
	assert.Equal(t, []string{"4", "10"}, s.Answers)
}

func TestCheckpointIsolation(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.AnswerQuestion("4")
	cp := s.Save()

	s.AnswerQuestion("10")
	s.Answers[0] = "mutated"

	assert.Equal(t, 1, cp.Position())
	assert.Equal(t, []string{"4"}, cp.Answers())

	// Callers cannot reach the stored slice through the accessor either.
	got := cp.Answers()
	got[0] = "changed"
	assert.Equal(t, []string{"4"}, cp.Answers())

	// Nor through the session after a restore.
	require.NoError(t, s.Restore(cp))
	s.Answers[0] = "again"
	assert.Equal(t, []string{"4"}, cp.Answers())
}

func TestRestoreRejectsForeignCheckpoint(t *testing.T) {
	t.Parallel()

	a := newTestSession(t)
	b := newTestSession(t)
	a.AnswerQuestion("4")
	b.AnswerQuestion("x")
	b.AnswerQuestion("y")

	err := b.Restore(a.Save())
	assert.ErrorIs(t, err, ErrCheckpointForeign)
	assert.Equal(t, 2, b.Position)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.Position = 3
	assert.ErrorIs(t, s.Validate(), ErrSessionPosition)

	s.Position = 0
	s.ID = uuid.Nil
	assert.ErrorIs(t, s.Validate(), ErrSessionIDEmpty)
}

func TestCheckpointJSON(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	s.AnswerQuestion("4")
	s.AnswerQuestion("10")
	cp := s.Save()

	data, err := json.Marshal(cp)
	require.NoError(t, err)

	var decoded Checkpoint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cp.ID(), decoded.ID())
	assert.Equal(t, s.ID, decoded.SessionID())
	assert.Equal(t, 2, decoded.Position())
	assert.Equal(t, []string{"4", "10"}, decoded.Answers())
	assert.True(t, cp.CreatedAt().Equal(decoded.CreatedAt()))

	bad := `{"id":"` + uuid.NewString() + `","session_id":"` + uuid.NewString() + `","position":5,"answers":["a"]}`
	assert.ErrorIs(t, json.Unmarshal([]byte(bad), &decoded), ErrCheckpointInvalidPos)
}

func TestNewCheckpoint(t *testing.T) {
	t.Parallel()

	answers := []string{"a", "b"}
	cp, err := NewCheckpoint(uuid.New(), uuid.New(), 1, answers, fixedTime())
	require.NoError(t, err)
	answers[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, cp.Answers())

	_, err = NewCheckpoint(uuid.Nil, uuid.New(), 0, nil, fixedTime())
	assert.ErrorIs(t, err, ErrCheckpointIDEmpty)

	_, err = NewCheckpoint(uuid.New(), uuid.Nil, 0, nil, fixedTime())
	assert.ErrorIs(t, err, ErrCheckpointSessionID)

	empty, err := NewCheckpoint(uuid.New(), uuid.New(), 0, nil, fixedTime())
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.Answers())
}

func fixedTime() time.Time { return time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC) }
