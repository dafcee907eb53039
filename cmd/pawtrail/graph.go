package main

import (
	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Export the navigation graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the navigation state machine, highlighting the session's screen when one is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		var sessionID string
		if len(args) > 0 {
			sessionID = args[0]
		}
		return app.Graph(cmd.Context(), cmd.OutOrStdout(), sessionID)
	}),
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
