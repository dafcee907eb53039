package main

import (
	"errors"

	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
	Long:  `List, inspect, and remove sessions in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		return app.ListSessions(cmd.Context(), cmd.OutOrStdout())
	}),
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the raw checkpoint of a session",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		return app.InspectSession(cmd.Context(), cmd.OutOrStdout(), args[0])
	}),
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id...]",
	Short: "Remove one or more sessions",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		switch {
		case all && len(args) > 0:
			return errors.New("--all takes no session ids")
		case all:
			return app.RemoveAllSessions(cmd.Context(), cmd.OutOrStdout())
		case len(args) == 0:
			return errors.New("requires at least one session id, or --all")
		}
		return app.RemoveSessions(cmd.Context(), cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}
