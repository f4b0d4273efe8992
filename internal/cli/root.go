package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

// NewRootCmd creates the top-level "messenger" command and registers all
// subcommands.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "messenger",
		Short:         "Resolve, render and post issue notifications to chat webhooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", os.Getenv("MESSENGER_DB"), "sqlite database to persist the fixture in")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newResolveCmd(flags),
		newRenderCmd(flags),
		newSendCmd(flags),
	)

	return root
}

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
