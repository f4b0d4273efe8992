package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSendCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "send <fixture>",
		Short: "Post the fixture event to its webhooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, flags, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr(), dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			evt, err := s.event(ctx)
			if err != nil {
				return err
			}
			deliveries, err := s.module.Manager().Send(ctx, evt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "sent %d deliveries via %s\n", len(deliveries), s.module.Config().Dispatcher.Adapter)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print payloads instead of posting them")

	return cmd
}
