// Package examfile reads and writes exam definitions: the YAML or JSON
// documents describing an exam tree. A definition is the serialized form of
// an exam.Section and is turned into one through exam.Builder.
package examfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/domain/exam"
	"gopkg.in/yaml.v3"
)

// Definition is the root of an exam document.
type Definition struct {
	Title string `yaml:"title" json:"title" validate:"required"`
	Items []Item `yaml:"items" json:"items" validate:"dive"`
}

// Item is either a section (Title and Items) or a question (Text and Key).
type Item struct {
	Title  string    `yaml:"title,omitempty" json:"title,omitempty"`
	Items  []Item    `yaml:"items,omitempty" json:"items,omitempty" validate:"dive"`
	Text   string    `yaml:"text,omitempty" json:"text,omitempty"`
	Key    string    `yaml:"key,omitempty" json:"key,omitempty"`
	Kind   exam.Kind `yaml:"kind,omitempty" json:"kind,omitempty" validate:"omitempty,oneof=multiple_choice true_false"`
	Grader string    `yaml:"grader,omitempty" json:"grader,omitempty" validate:"omitempty,oneof=exact trimmed"`
}

// IsSection reports whether the item describes a section.
func (i Item) IsSection() bool {
	return i.Text == "" && i.Title != ""
}

// ErrAmbiguousItem is returned for items that are neither a section nor a question.
var ErrAmbiguousItem = errors.New("item must have either a title or a text")

var validate = validator.New()

// Parse decodes a YAML document. JSON is valid YAML, so JSON input works too.
// Unknown fields are rejected.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse exam definition: %w", domain.ErrEmptyContent)
		}
		return nil, fmt.Errorf("parse exam definition: %w: %v", domain.ErrInvalidFormat, err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("parse exam definition: %w: multiple documents are not supported", domain.ErrInvalidFormat)
		}
		return nil, fmt.Errorf("parse exam definition: %w: %v", domain.ErrInvalidFormat, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exam definition: %w", err)
	}
	return Parse(data)
}

// Validate checks field constraints and that every item is unambiguous.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return checkItems(d.Items)
}

func checkItems(items []Item) error {
	for _, it := range items {
		if it.Text != "" && (it.Title != "" || len(it.Items) > 0) {
			return fmt.Errorf("%w: %w: %q", domain.ErrValidation, ErrAmbiguousItem, it.Text)
		}
		if it.Text == "" && it.Title == "" {
			return fmt.Errorf("%w: %w", domain.ErrValidation, ErrAmbiguousItem)
		}
		if it.Title != "" && (it.Key != "" || it.Kind != "" || it.Grader != "") {
			return fmt.Errorf("%w: %w: section %q has question fields", domain.ErrValidation, ErrAmbiguousItem, it.Title)
		}
		if err := checkItems(it.Items); err != nil {
			return err
		}
	}
	return nil
}

// Build assembles the exam tree described by d.
func (d *Definition) Build() (*exam.Section, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b := exam.NewBuilder(d.Title)
	var graderErr error
	addItems(b, d.Items, &graderErr)
	if graderErr != nil {
		return nil, graderErr
	}
	return b.Build()
}

func addItems(b *exam.Builder, items []Item, graderErr *error) {
	for _, it := range items {
		if it.IsSection() {
			children := it.Items
			b.WithinSection(it.Title, func(b *exam.Builder) {
				addItems(b, children, graderErr)
			})
			continue
		}
		var g exam.Grader
		if it.Grader != "" {
			var err error
			if g, err = exam.GraderByName(it.Grader); err != nil {
				*graderErr = err
				return
			}
		}
		b.AddGraded(it.Kind, it.Text, it.Key, g)
	}
}

// FromSection converts a built tree back into a definition. Question
// prompts are stored without the hint the factory appends.
func FromSection(root *exam.Section) *Definition {
	return &Definition{
		Title: root.Title(),
		Items: itemsOf(root),
	}
}

func itemsOf(s *exam.Section) []Item {
	var items []Item
	for n := range s.Iterator() {
		switch v := n.(type) {
		case *exam.Section:
			items = append(items, Item{Title: v.Title(), Items: itemsOf(v)})
		case *exam.Question:
			items = append(items, Item{
				Text:   v.Prompt(),
				Key:    v.Key(),
				Kind:   v.Kind(),
				Grader: v.GraderName(),
			})
		}
	}
	return items
}

// ParseJSON decodes the canonical JSON encoding.
func ParseJSON(data []byte) (*Definition, error) {
	var def Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
