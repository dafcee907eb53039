package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "pawtrail",
	Short: "pawtrail drives a two-screen dog browser with durable navigation state",
	Long: `pawtrail keeps one navigator per session (Home or a dog's Detail screen),
checkpoints it after every change and restores it on the next run.
Sessions live in a file, SQLite, memory or Redis store chosen in pawtrail.yaml
(or pawtrail.toml). Variables from a .env file are applied before the config.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default pawtrail.yaml)")
	rootCmd.PersistentFlags().String("env-file", "", "Env file loaded before the config (default .env)")
	rootCmd.PersistentFlags().String("dir", "", "Project directory; sessions go to <dir>/.pawtrail/sessions")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// newApp builds the App from the global flags. Callers must Close it.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")

	return cli.NewApp(cli.Options{
		ConfigPath: configPath,
		EnvFile:    envFile,
		Dir:        dir,
		Debug:      debug,
	})
}

// screenOutput styles output only when stdout is a terminal.
func screenOutput(cmd *cobra.Command) cli.Output {
	styled := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	plain, _ := cmd.Flags().GetBool("plain")
	return cli.Output{
		W:      cmd.OutOrStdout(),
		Styled: styled && !plain,
		Banner: styled && !plain,
	}
}

// withApp wraps a command body with App construction and teardown.
func withApp(fn func(cmd *cobra.Command, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, app, args)
	}
}
