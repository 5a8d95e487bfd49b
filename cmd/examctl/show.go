package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/examfile"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var canonical bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Validate an exam definition file and print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)

			def, err := examfile.Load(args[0])
			if err != nil {
				return err
			}
			root, err := def.Build()
			if err != nil {
				return err
			}
			log.Debug("exam definition loaded",
				slog.String("path", args[0]),
				slog.Int("question_count", len(root.Questions())))

			out := cmd.OutOrStdout()
			if canonical {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(examfile.FromSection(root))
			}

			rendered, err := exam.Render(root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s\n%d questions\n", rendered, len(root.Questions()))
			return err
		},
	}
	cmd.Flags().BoolVar(&canonical, "json", false, "print the canonical JSON definition instead of the tree")
	return cmd
}
