package cli

import (
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/spf13/cobra"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <fixture>",
		Short: "Print the deliveries the fixture event would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, flags, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer s.close()

			evt, err := s.event(ctx)
			if err != nil {
				return err
			}
			deliveries, err := s.module.Manager().Preview(ctx, evt)
			if err != nil {
				return err
			}
			if deliveries == nil {
				deliveries = []domain.Delivery{}
			}
			return writeJSON(cmd.OutOrStdout(), deliveries)
		},
	}
}
