package exam

import (
	"fmt"
	"strings"
)

// Grader decides whether an answer matches an answer key.
// Implementations must be stateless so one value can be shared by many questions.
type Grader interface {
	Grade(answer, key string) bool
}

// GraderFunc adapts an ordinary function to the Grader interface.
type GraderFunc func(answer, key string) bool

// Grade calls f(answer, key).
func (f GraderFunc) Grade(answer, key string) bool {
	return f(answer, key)
}

// ExactMatch accepts only answers byte-for-byte equal to the key.
type ExactMatch struct{}

// Grade implements Grader.
func (ExactMatch) Grade(answer, key string) bool {
	return answer == key
}

// TrimmedMatch ignores surrounding whitespace and letter case.
type TrimmedMatch struct{}

// Grade implements Grader.
func (TrimmedMatch) Grade(answer, key string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(key))
}

// Grader names accepted by GraderByName.
const (
	GraderExact   = "exact"
	GraderTrimmed = "trimmed"
)

// GraderByName returns the grader registered under name. An empty name
// selects ExactMatch.
func GraderByName(name string) (Grader, error) {
	switch name {
	case "", GraderExact:
		return ExactMatch{}, nil
	case GraderTrimmed:
		return TrimmedMatch{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrader, name)
	}
}

// graderName is the inverse of GraderByName for the built-in graders.
func graderName(g Grader) string {
	switch g.(type) {
	case TrimmedMatch, *TrimmedMatch:
		return GraderTrimmed
	default:
		return GraderExact
	}
}
