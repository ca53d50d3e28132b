package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardsrs/internal/cli"
)

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review the due cards in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			env, err := setupEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			out := cmd.OutOrStdout()
			reviewCLI := cli.NewReviewCLI(env.svc, user, cmd.InOrStdin(), out)
			_, _ = fmt.Fprintln(out, "Review session started! Press Ctrl+C to exit.")
			return reviewCLI.Run(cmd.Context(), reviewCLI)
		},
	}
}
