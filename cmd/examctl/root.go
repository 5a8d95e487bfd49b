package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/exam-api/internal/domain/timer"
	"github.com/phrazzld/exam-api/internal/platform/logger"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	clock      timer.Clock
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logger.New(cmd.ErrOrStderr(), o.logLevel)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithClock(timer.SystemClock)
}

// newRootCmdWithClock builds the command tree. The clock drives the demo timer.
func newRootCmdWithClock(clock timer.Clock) *cobra.Command {
	opts := &rootOptions{clock: clock}

	cmd := &cobra.Command{
		Use:           "examctl",
		Short:         "Work with exam definitions and examd credentials",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a config file (default: ./config.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"log level for diagnostics written to stderr (debug, info, warn, error)")

	cmd.AddCommand(
		newDemoCmd(opts),
		newShowCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}
