package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phrazzld/exam-api/internal/config"
	"github.com/phrazzld/exam-api/internal/service/auth"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <candidate-id>",
		Short: "Issue an examd bearer token for a candidate",
		Long: "Issue an examd bearer token for a candidate. The signing secret and " +
			"lifetime come from the same configuration examd reads.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)

			candidateID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid candidate ID %q: %w", args[0], err)
			}

			cfg, err := config.LoadFrom(opts.configPath)
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}

			token, err := jwtService.GenerateToken(cmd.Context(), candidateID)
			if err != nil {
				return err
			}
			log.Info("token issued",
				slog.String("candidate_id", candidateID.String()),
				slog.Int("lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
