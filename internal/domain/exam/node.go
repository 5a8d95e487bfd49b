package exam

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// indentUnit is written once per nesting level by Display.
const indentUnit = "  "

// Node is the read-only capability shared by every element of an exam tree.
type Node interface {
	// Display writes the node, and anything below it, to w indented by depth levels.
	Display(w io.Writer, depth int) error
}

// Container is implemented by nodes that can hold children. Code that
// assembles trees works with Containers so it never needs to ask a leaf to
// hold anything.
type Container interface {
	Node
	Add(child Node) error
}

// Question is a leaf of the exam tree.
type Question struct {
	prompt string
	text   string
	key    string
	kind   Kind
	grader Grader
}

// newQuestion is used by the factory functions, which are the only way to
// obtain a Question.
func newQuestion(kind Kind, prompt, hint, key string, grader Grader) *Question {
	if grader == nil {
		grader = ExactMatch{}
	}
	return &Question{prompt: prompt, text: prompt + hint, key: key, kind: kind, grader: grader}
}

// Prompt returns the text the question was created with.
func (q *Question) Prompt() string { return q.prompt }

// Text returns the display text, including any hint added by the factory.
func (q *Question) Text() string { return q.text }

// Key returns the answer key.
func (q *Question) Key() string { return q.key }

// Kind returns the kind the question was built as.
func (q *Question) Kind() Kind { return q.kind }

// GraderName returns the registered name of the question's grader.
func (q *Question) GraderName() string { return graderName(q.grader) }

// CheckAnswer reports whether answer matches the key under the question's grader.
func (q *Question) CheckAnswer(answer string) bool {
	return q.grader.Grade(answer, q.key)
}

// Display implements Node.
func (q *Question) Display(w io.Writer, depth int) error {
	_, err := fmt.Fprintf(w, "%sQuestion: %s\n", indent(depth), q.text)
	return err
}

// Add always fails: questions are leaves.
func (q *Question) Add(Node) error {
	return fmt.Errorf("%w: cannot add a child to a question", ErrUnsupportedOperation)
}

// Section is a composite node holding an ordered list of children. Each
// child belongs to exactly one section.
type Section struct {
	title    string
	children []Node
}

// Compile-time interface checks.
var (
	_ Container = (*Section)(nil)
	_ Node      = (*Question)(nil)
)

// NewSection returns an empty section.
func NewSection(title string) *Section {
	return &Section{title: title}
}

// Title returns the section title.
func (s *Section) Title() string { return s.title }

// Len returns the number of direct children.
func (s *Section) Len() int { return len(s.children) }

// Add appends child after the existing children.
func (s *Section) Add(child Node) error {
	if child == nil {
		return ErrNilNode
	}
	s.children = append(s.children, child)
	return nil
}

// Display implements Node. Children are written in insertion order, one
// level deeper than the section itself.
func (s *Section) Display(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%s--- SECTION: %s ---\n", indent(depth), s.title); err != nil {
		return err
	}
	for _, child := range s.children {
		if err := child.Display(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Iterator returns a sequence over the direct children of s, left to right.
// Each call starts a fresh traversal. The section must not be modified
// while a traversal is in progress.
func (s *Section) Iterator() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range s.children {
			if !yield(child) {
				return
			}
		}
	}
}

// Questions returns every question in the tree in pre-order, which is the
// order a candidate answers them in.
func (s *Section) Questions() []*Question {
	var out []*Question
	s.collect(&out)
	return out
}

func (s *Section) collect(out *[]*Question) {
	for _, child := range s.children {
		switch n := child.(type) {
		case *Question:
			*out = append(*out, n)
		case *Section:
			n.collect(out)
		}
	}
}

// Render returns the Display output of n starting at depth 0.
func Render(n Node) (string, error) {
	var b strings.Builder
	if err := n.Display(&b, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(indentUnit, depth)
}
