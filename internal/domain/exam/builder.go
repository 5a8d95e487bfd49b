package exam

import (
	"strings"

	"github.com/phrazzld/exam-api/internal/domain"
)

// Builder assembles an exam tree. It keeps a cursor on the section that
// receives new nodes; the cursor starts at the root.
//
// AddSection appends a section under the cursor but leaves the cursor where
// it was, so chained AddSection/AddQuestion calls produce sibling sections
// followed by questions at the same level. Use WithinSection to fill a
// section's own children.
//
// Builder methods return the builder for chaining. The first error is kept
// and reported by Build; later calls are ignored once an error is recorded.
type Builder struct {
	root   *Section
	cursor Container
	err    error
}

// NewBuilder starts a tree whose root section has the given title.
func NewBuilder(title string) *Builder {
	root := NewSection(title)
	b := &Builder{root: root, cursor: root}
	if strings.TrimSpace(title) == "" {
		b.err = domain.NewValidationError("title", "cannot be empty", domain.ErrEmptyContent)
	}
	return b
}

// AddSection appends a new empty section under the current section.
func (b *Builder) AddSection(name string) *Builder {
	b.addSection(name)
	return b
}

// WithinSection appends a new section under the current section and calls
// fill with the cursor moved into it. The cursor is restored afterwards.
func (b *Builder) WithinSection(name string, fill func(*Builder)) *Builder {
	sec := b.addSection(name)
	if sec == nil || fill == nil {
		return b
	}
	prev := b.cursor
	b.cursor = sec
	fill(b)
	b.cursor = prev
	return b
}

// AddQuestion appends a multiple-choice question to the current section.
func (b *Builder) AddQuestion(text, key string) *Builder {
	return b.AddGraded(KindMultipleChoice, text, key, nil)
}

// AddTrueFalse appends a true/false question to the current section.
func (b *Builder) AddTrueFalse(text, key string) *Builder {
	return b.AddGraded(KindTrueFalse, text, key, nil)
}

// AddGraded appends a question of the given kind. A nil grader keeps the
// kind's default.
func (b *Builder) AddGraded(kind Kind, text, key string, grader Grader) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(text) == "" {
		b.err = domain.NewValidationError("question text", "cannot be empty", domain.ErrEmptyContent)
		return b
	}
	q, err := NewQuestion(kind, text, key, grader)
	if err != nil {
		b.err = err
		return b
	}
	b.err = b.cursor.Add(q)
	return b
}

// Build returns the root section, or the first error recorded while building.
func (b *Builder) Build() (*Section, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.root, nil
}

func (b *Builder) addSection(name string) *Section {
	if b.err != nil {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		b.err = domain.NewValidationError("section title", "cannot be empty", domain.ErrEmptyContent)
		return nil
	}
	sec := NewSection(name)
	if err := b.cursor.Add(sec); err != nil {
		b.err = err
		return nil
	}
	return sec
}
