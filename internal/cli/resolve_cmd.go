package cli

import (
	"github.com/spf13/cobra"
)

func newResolveCmd(flags *globalFlags) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "resolve <fixture>",
		Short: "Print the effective settings of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, flags, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer s.close()

			project, err := s.project(ctx, projectID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s.module.Settings().Resolve(ctx, project))
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier (defaults to notify.project)")

	return cmd
}
