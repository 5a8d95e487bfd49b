package exam

import "errors"

var (
	// ErrUnsupportedOperation is returned when a structural operation is
	// attempted on a node that cannot perform it, such as adding a child
	// to a question.
	ErrUnsupportedOperation = errors.New("unsupported structural operation")

	// ErrNilNode is returned when a nil child is added to a section.
	ErrNilNode = errors.New("node cannot be nil")

	// ErrUnknownQuestionKind is returned by NewQuestion for kinds it cannot build.
	ErrUnknownQuestionKind = errors.New("unknown question kind")

	// ErrUnknownGrader is returned by GraderByName for unregistered names.
	ErrUnknownGrader = errors.New("unknown grader")
)
