package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/aretw0/pawtrail"
	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes sessions as a JSON API with Server-Sent Events and Prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		addr := app.Config.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Stop()

		err = app.Serve(sigCtx, cmd.OutOrStdout(), ln, strings.TrimSpace(pawtrail.Version))
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Debug("interrupted", "signal", sig)
		}
		return err
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
