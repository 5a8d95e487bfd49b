package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/domain/timer"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a sample exam, answer it, then checkpoint and restore the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), opts.clock)
		},
	}
}

// runDemo walks through the exam model: the timer, the builder, display,
// iteration over the root's children, and session checkpoint/restore.
func runDemo(w io.Writer, clock timer.Clock) error {
	t := timer.New(timer.DefaultLimit, clock)
	if _, err := fmt.Fprintf(w, "Time remaining: %ds\n", int(t.Remaining().Round(time.Second)/time.Second)); err != nil {
		return err
	}

	// AddSection does not move the cursor, so the questions land on the root
	// after the two empty sections.
	root, err := exam.NewBuilder("Final Exam").
		AddSection("Logic").
		AddQuestion("2+2=?", "4").
		AddQuestion("3*3=?", "9").
		AddSection("Object Orientation").
		AddQuestion("What is polymorphism?", "Many forms").
		Build()
	if err != nil {
		return err
	}

	if err := root.Display(w, 0); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nIterating with Iterator:"); err != nil {
		return err
	}
	for node := range root.Iterator() {
		if err := node.Display(w, 0); err != nil {
			return err
		}
	}

	var sess session.Session
	sess.AnswerQuestion("4")
	sess.AnswerQuestion("10")

	if _, err := fmt.Fprintln(w, "\n[Saving state...]"); err != nil {
		return err
	}
	checkpoint := sess.Save()

	if _, err := fmt.Fprintln(w, "[System crashed... Restoring...]"); err != nil {
		return err
	}
	if err := sess.Restore(checkpoint); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Restored to index %d\n", sess.Position); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Answers:"); err != nil {
		return err
	}
	for i := range sess.Position {
		if _, err := fmt.Fprintln(w, sess.Answer(i)); err != nil {
			return err
		}
	}
	return nil
}
