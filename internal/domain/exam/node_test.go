package exam

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionAddIsUnsupported(t *testing.T) {
	t.Parallel()

	leaves := []*Question{
		NewMultipleChoice("What is 2+2?", "4"),
		NewTrueFalse("Go has generics", "T"),
	}

	for _, q := range leaves {
		before, err := Render(q)
		require.NoError(t, err)

		err = q.Add(NewSection("nested"))
		assert.ErrorIs(t, err, ErrUnsupportedOperation)

		err = q.Add(NewMultipleChoice("other", "x"))
		assert.ErrorIs(t, err, ErrUnsupportedOperation)

		after, err := Render(q)
		require.NoError(t, err)
		assert.Equal(t, before, after, "leaf must be unchanged after a rejected add")
	}
}

func TestSectionAddRejectsNil(t *testing.T) {
	t.Parallel()

	s := NewSection("root")
	assert.ErrorIs(t, s.Add(nil), ErrNilNode)
	assert.Equal(t, 0, s.Len())
}

func TestSectionDisplayOneSectionTwoQuestions(t *testing.T) {
	t.Parallel()

	s := NewSection("Logic")
	require.NoError(t, s.Add(NewMultipleChoice("What is 2+2?", "4")))
	require.NoError(t, s.Add(NewMultipleChoice("What is 3*3?", "9")))

	out, err := Render(s)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "--- SECTION: Logic ---", lines[0])
	assert.Equal(t, "  Question: What is 2+2? (A/B/C/D)", lines[1])
	assert.Equal(t, "  Question: What is 3*3? (A/B/C/D)", lines[2])
}

func TestSectionDisplayNestedOrderAndIndent(t *testing.T) {
	t.Parallel()

	root := NewSection("Final")
	a := NewSection("A")
	b := NewSection("B")
	require.NoError(t, a.Add(NewMultipleChoice("a1", "x")))
	require.NoError(t, b.Add(NewMultipleChoice("b1", "x")))
	require.NoError(t, a.Add(b))
	require.NoError(t, a.Add(NewMultipleChoice("a2", "x")))
	require.NoError(t, root.Add(a))
	require.NoError(t, root.Add(NewMultipleChoice("r1", "x")))

	var buf bytes.Buffer
	require.NoError(t, root.Display(&buf, 1))

	want := []string{
		"  --- SECTION: Final ---",
		"    --- SECTION: A ---",
		"      Question: a1 (A/B/C/D)",
		"      --- SECTION: B ---",
		"        Question: b1 (A/B/C/D)",
		"      Question: a2 (A/B/C/D)",
		"    Question: r1 (A/B/C/D)",
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDisplayPropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	s := NewSection("root")
	require.NoError(t, s.Add(NewMultipleChoice("q", "k")))
	assert.Error(t, s.Display(failingWriter{}, 0))
}

func TestIteratorVisitsDirectChildrenOnly(t *testing.T) {
	t.Parallel()

	root := NewSection("root")
	inner := NewSection("inner")
	q1 := NewMultipleChoice("q1", "a")
	q2 := NewMultipleChoice("q2", "b")
	require.NoError(t, inner.Add(q2))
	require.NoError(t, root.Add(q1))
	require.NoError(t, root.Add(inner))

	var first []Node
	for n := range root.Iterator() {
		first = append(first, n)
	}
	assert.Equal(t, []Node{q1, inner}, first)

	// Two iterators are independent traversals over the same content.
	it1 := root.Iterator()
	it2 := root.Iterator()
	var a, b []Node
	for n := range it1 {
		a = append(a, n)
		for m := range it2 {
			b = append(b, m)
		}
	}
	assert.Equal(t, first, a)
	assert.Equal(t, []Node{q1, inner, q1, inner}, b)

	// Restartable: ranging the same sequence again starts over.
	var again []Node
	for n := range it1 {
		again = append(again, n)
	}
	assert.Equal(t, first, again)
}

func TestIteratorEarlyStop(t *testing.T) {
	t.Parallel()

	root := NewSection("root")
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, root.Add(NewMultipleChoice(text, "k")))
	}

	count := 0
	for range root.Iterator() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestQuestionsPreOrder(t *testing.T) {
	t.Parallel()

	exam, err := NewBuilder("Final").
		WithinSection("Logic", func(b *Builder) {
			b.AddQuestion("2+2", "4").AddQuestion("3*3", "9")
		}).
		AddQuestion("last", "z").
		Build()
	require.NoError(t, err)

	qs := exam.Questions()
	require.Len(t, qs, 3)
	assert.Equal(t, "2+2", qs[0].Prompt())
	assert.Equal(t, "3*3", qs[1].Prompt())
	assert.Equal(t, "last", qs[2].Prompt())
}

func TestQuestionCheckAnswer(t *testing.T) {
	t.Parallel()

	q := NewMultipleChoice("What is 2+2?", "4")
	assert.True(t, q.CheckAnswer("4"))
	assert.False(t, q.CheckAnswer("10"))
	assert.False(t, q.CheckAnswer(" 4"))
}

func TestNewExam(t *testing.T) {
	t.Parallel()

	root, err := NewBuilder("Quiz").AddQuestion("q1", "a").AddQuestion("q2", "b").Build()
	require.NoError(t, err)

	e, err := NewExam(root)
	require.NoError(t, err)
	assert.Equal(t, "Quiz", e.Title())
	assert.Equal(t, 2, e.QuestionCount())
	assert.False(t, e.CreatedAt.IsZero())

	_, err = NewExam(nil)
	assert.ErrorIs(t, err, ErrExamRootEmpty)
}
