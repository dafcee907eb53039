package main

import (
	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Follow a session and reprint its screen on every change",
	Long: `Prints the session's screen, then prints it again whenever another
pawtrail process checkpoints or removes it. Requires the file store backend.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Stop()

		err := app.Watch(sigCtx, screenOutput(cmd), args[0])
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Debug("interrupted", "signal", sig)
		}
		return err
	}),
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("plain", false, "Disable colors and markdown styling")
}
