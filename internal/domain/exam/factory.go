package exam

import "fmt"

// Kind identifies how a question was constructed.
type Kind string

// Supported question kinds.
const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
)

// Hints appended to the question text by the factory.
const (
	MultipleChoiceHint = " (A/B/C/D)"
	TrueFalseHint      = " (T/F)"
)

// NewMultipleChoice returns a multiple-choice question graded by exact match.
func NewMultipleChoice(text, key string) *Question {
	return newQuestion(KindMultipleChoice, text, MultipleChoiceHint, key, ExactMatch{})
}

// NewTrueFalse returns a true/false question graded by exact match.
func NewTrueFalse(text, key string) *Question {
	return newQuestion(KindTrueFalse, text, TrueFalseHint, key, ExactMatch{})
}

// NewQuestion builds a question of the given kind. An empty kind means
// multiple choice. A nil grader keeps the kind's default grader.
func NewQuestion(kind Kind, text, key string, grader Grader) (*Question, error) {
	var q *Question
	switch kind {
	case "", KindMultipleChoice:
		q = NewMultipleChoice(text, key)
	case KindTrueFalse:
		q = NewTrueFalse(text, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionKind, kind)
	}
	if grader != nil {
		q.grader = grader
	}
	return q, nil
}
